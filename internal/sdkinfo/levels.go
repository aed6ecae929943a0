package sdkinfo

// APILevels maps android.<codename> to the numeric API level, so a manifest
// can write `min: android.K` instead of 19.
func APILevels() Map {
	levels := map[string]int{
		"G":     9,
		"I":     14,
		"J":     16,
		"J-MR1": 17,
		"J-MR2": 18,
		"K":     19,
		"L":     21,
		"L-MR1": 22,
		"M":     23,
		"N":     24,
		"N-MR1": 25,
		"O":     26,
		"O-MR1": 27,
		"P":     28,
		"Q":     29,
		"R":     30,
		"S":     31,
		"S-V2":  32,
		"T":     33,
		"U":     34,
		"V":     35,
	}

	out := make(Map, len(levels))
	for codename, level := range levels {
		out["android."+codename] = level
	}
	return out
}
