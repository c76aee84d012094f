package logcat

import "strings"

// Kind is the outcome of classifying one input line.
type Kind int

const (
	KindRejected Kind = iota
	KindNoise
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindNoise:
		return "noise"
	case KindRecord:
		return "record"
	}
	return "rejected"
}

// Record is one parsed brief-format line. Fields are whitespace-trimmed.
type Record struct {
	Level   Level
	Tag     string
	PID     string
	Message string
}

// StartEvent is a normalized process start announcement. Shapes that do not
// carry a field leave it empty.
type StartEvent struct {
	PID     string
	UID     string
	GIDs    string
	Package string
	Target  string
}

// DeathEvent is a normalized process end announcement.
type DeathEvent struct {
	PID     string
	Package string
}

// Classification is the result of Classify. Start and Death are independent
// of Kind: a line that is not a Record may still announce a start.
type Classification struct {
	Kind   Kind
	Record Record
	Start  *StartEvent
	Death  *DeathEvent
}

// Classify inspects a line with its line terminator already removed.
// It never fails; lines of unknown shape are KindRejected.
func (r *Registry) Classify(line string) Classification {
	if line == "" {
		return Classification{}
	}
	if r.noise.MatchString(line) {
		return Classification{Kind: KindNoise}
	}

	var c Classification
	c.Start = r.matchStart(line)

	m := r.record.FindStringSubmatch(line)
	if m == nil {
		return c
	}
	level, ok := levelFromLetter(m[1][0])
	if !ok {
		return c
	}
	c.Kind = KindRecord
	c.Record = Record{
		Level:   level,
		Tag:     strings.TrimSpace(m[2]),
		PID:     strings.TrimSpace(m[3]),
		Message: strings.TrimSpace(m[4]),
	}
	if c.Record.Tag == ActivityManagerTag {
		c.Death = r.matchDeath(c.Record.Message)
	}
	return c
}

func (r *Registry) matchStart(line string) *StartEvent {
	for _, s := range r.starts {
		if m := s.re.FindStringSubmatch(line); m != nil {
			ev := s.extract(m)
			return &ev
		}
	}
	return nil
}

func (r *Registry) matchDeath(message string) *DeathEvent {
	for _, d := range r.deaths {
		if m := d.re.FindStringSubmatch(message); m != nil {
			ev := d.extract(m)
			return &ev
		}
	}
	return nil
}
