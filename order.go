package tapable

// insertTap places item into taps and returns the updated slice.
//
// The slice is scanned from the end, shifting each element one slot right. While item still
// has before-names to pass, it keeps moving ahead, consuming a name whenever it passes the tap
// that carries it. Once every before-name is consumed, item settles right after the first
// element whose stage is not greater than its own. Taps with equal stages therefore keep
// registration order.
//
// Before-names that match no registered tap, or that name item itself, are dropped up front:
// nothing can be enforced against a tap that does not exist yet.
func insertTap(taps []*Tap, item *Tap) []*Tap {
	before := pendingBefore(taps, item)

	taps = append(taps, nil)
	i := len(taps) - 1
	for i > 0 {
		i--
		x := taps[i]
		taps[i+1] = x
		if len(before) > 0 {
			delete(before, x.Name)
			continue
		}
		if x.Stage > item.Stage {
			continue
		}
		i++
		break
	}
	taps[i] = item
	return taps
}

// pendingBefore resolves item.Before to the set of names present in taps.
func pendingBefore(taps []*Tap, item *Tap) map[string]struct{} {
	if len(item.Before) == 0 {
		return nil
	}

	wanted := make(map[string]struct{}, len(item.Before))
	for _, name := range item.Before {
		if name != item.Name {
			wanted[name] = struct{}{}
		}
	}

	present := make(map[string]struct{}, len(wanted))
	for _, t := range taps {
		if _, ok := wanted[t.Name]; ok {
			present[t.Name] = struct{}{}
		}
	}
	return present
}
