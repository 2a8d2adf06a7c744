package listview

// endDetector turns the level condition "remaining < threshold" into a single
// notification per crossing. It re-arms once remaining climbs back to the threshold.
type endDetector struct {
	threshold int
	reached   bool
}

// observe records the remaining distance after a scroll update and reports
// whether the end-reached notification must fire now.
func (d *endDetector) observe(remaining int) bool {
	if remaining < d.threshold {
		if d.reached {
			return false
		}
		d.reached = true
		return true
	}
	d.reached = false
	return false
}

// rearm clears the flag when remaining is back above the threshold. It never fires.
func (d *endDetector) rearm(remaining int) {
	if remaining >= d.threshold {
		d.reached = false
	}
}
