package nbt

func GetLong(c Compound, name string) (int64, bool) {
	n, ok := c.FindType(name, TypeLong)
	if !ok {
		return 0, false
	}
	return n.Long()
}

func GetInt(c Compound, name string) (int32, bool) {
	n, ok := c.FindType(name, TypeInt)
	if !ok {
		return 0, false
	}
	return n.Int()
}

func GetText(c Compound, name string) (string, bool) {
	n, ok := c.FindType(name, TypeString)
	if !ok {
		return "", false
	}
	return n.Text()
}

func GetCompound(c Compound, name string) (Compound, bool) {
	n, ok := c.FindType(name, TypeCompound)
	if !ok {
		return nil, false
	}
	return n.Compound()
}
