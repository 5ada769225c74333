package registry

func (t *contextTable) len() int {
	return len(t.byID)
}

func (t *serviceTable) len() int {
	return len(t.entries)
}
