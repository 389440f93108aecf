package entity

import "github.com/ancoleman/panflow-sub001/internal/xmltree"

// Schedule is the typed view over a <schedule><entry> element, either
// recurring or non-recurring, never both.
type Schedule struct {
	Node *xmltree.Node
}

func NewSchedule(n *xmltree.Node) Schedule {
	return Schedule{Node: n}
}

func (s Schedule) Name() string {
	return s.Node.Name()
}

func (s Schedule) scheduleType() *xmltree.Node {
	return s.Node.Child("schedule-type")
}

// IsRecurring reports whether this schedule uses the weekly/daily
// recurring form.
func (s Schedule) IsRecurring() bool {
	st := s.scheduleType()
	return st != nil && st.Child("recurring") != nil
}

// IsNonRecurring reports whether this schedule uses the fixed
// date-range form.
func (s Schedule) IsNonRecurring() bool {
	st := s.scheduleType()
	return st != nil && st.Child("non-recurring") != nil
}

// NonRecurringRanges returns the raw "YYYY/MM/DD@HH:MM-YYYY/MM/DD@HH:MM"
// member strings of a non-recurring schedule.
func (s Schedule) NonRecurringRanges() []string {
	st := s.scheduleType()
	if st == nil {
		return nil
	}
	nr := st.Child("non-recurring")
	if nr == nil {
		return nil
	}
	return nr.MemberNames()
}

// RecurringTimeRanges returns every "HH:MM-HH:MM" member string across a
// recurring schedule's daily list and each weekday's list.
func (s Schedule) RecurringTimeRanges() []string {
	st := s.scheduleType()
	if st == nil {
		return nil
	}
	rec := st.Child("recurring")
	if rec == nil {
		return nil
	}
	var out []string
	if daily := rec.Child("daily"); daily != nil {
		out = append(out, daily.MemberNames()...)
	}
	if weekly := rec.Child("weekly"); weekly != nil {
		for _, day := range weekly.Children {
			out = append(out, day.MemberNames()...)
		}
	}
	return out
}
