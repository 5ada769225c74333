package matcher

func (m *Matcher) cacheLen() int {
	return m.cache.Len()
}
