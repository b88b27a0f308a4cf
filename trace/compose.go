package trace

func composeStartDone[S, D any](h1, h2 func(S) func(D)) func(S) func(D) {
	return func(info S) func(D) {
		var r1, r2 func(D)
		if h1 != nil {
			r1 = h1(info)
		}
		if h2 != nil {
			r2 = h2(info)
		}

		return func(info D) {
			if r1 != nil {
				r1(info)
			}
			if r2 != nil {
				r2(info)
			}
		}
	}
}

// onStart calls the start hook if any and always returns a callable done hook.
func onStart[S, D any](h func(S) func(D), info S) func(D) {
	if h == nil {
		return func(D) {}
	}
	if onDone := h(info); onDone != nil {
		return onDone
	}

	return func(D) {}
}
