package session

// Gate records whether a response is being generated. It has no lock of its
// own; Service guards it with the session mutex so that checking the gate
// and acting on the result cannot interleave with a transition.
type Gate struct {
	engaged bool
}

// Engage marks generation as started. It reports false if already engaged.
func (g *Gate) Engage() bool {
	if g.engaged {
		return false
	}
	g.engaged = true
	return true
}

// Release marks generation as ended. It reports false if not engaged.
func (g *Gate) Release() bool {
	if !g.engaged {
		return false
	}
	g.engaged = false
	return true
}

// Engaged reports whether generation is in progress.
func (g *Gate) Engaged() bool {
	return g.engaged
}
