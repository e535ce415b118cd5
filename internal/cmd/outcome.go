package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rowantrollope/handycmd/internal/statement"
)

// Status is the result of executing one occurrence.
type Status int

const (
	Succeeded Status = iota
	AlreadyExists
	Failed
)

func (s Status) String() string {
	switch s {
	case Succeeded:
		return "succeeded"
	case AlreadyExists:
		return "already-exists"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Category is the user-visible class of an outcome message.
type Category string

const (
	CategorySuccess Category = "success"
	CategoryWarn    Category = "warn"
	CategoryError   Category = "error"
)

// Outcome is the result of one extracted occurrence.
type Outcome struct {
	Kind    statement.Kind
	Status  Status
	Targets []string
	Err     error
}

func succeeded(c statement.Command) Outcome {
	return Outcome{Kind: c.Kind, Status: Succeeded, Targets: targets(c)}
}

func alreadyExists(c statement.Command) Outcome {
	return Outcome{Kind: c.Kind, Status: AlreadyExists, Targets: targets(c)}
}

// failed wraps err with its failure class so callers can match either.
func failed(c statement.Command, err error) Outcome {
	class := Classify(err)
	if !errors.Is(err, class) {
		err = fmt.Errorf("%w: %w", class, err)
	}
	return Outcome{Kind: c.Kind, Status: Failed, Targets: targets(c), Err: err}
}

// targets returns the path captures of c, leaving out content bodies.
func targets(c statement.Command) []string {
	var out []string
	for i, slot := range c.Slots {
		if slot == statement.SlotBody {
			continue
		}
		out = append(out, c.Args[i])
	}
	return out
}

// Category maps the outcome status to its message category.
func (o Outcome) Category() Category {
	switch o.Status {
	case Succeeded:
		return CategorySuccess
	case AlreadyExists:
		return CategoryWarn
	default:
		return CategoryError
	}
}

// Class returns the failure class of a Failed outcome, nil otherwise.
func (o Outcome) Class() error {
	if o.Status != Failed {
		return nil
	}
	return Classify(o.Err)
}

func (o Outcome) target(i int) string {
	if i < len(o.Targets) {
		return o.Targets[i]
	}
	return ""
}

// Message returns the user-visible line for the outcome.
func (o Outcome) Message() string {
	switch o.Status {
	case Succeeded:
		return o.successMessage()
	case AlreadyExists:
		return fmt.Sprintf(`"%s", already exists!`, o.target(0))
	default:
		return fmt.Sprintf("%s failed: %v", o.subject(), o.Err)
	}
}

func (o Outcome) successMessage() string {
	p := o.target(0)
	switch o.Kind {
	case statement.CreateFile:
		return fmt.Sprintf(`created a new file at "%s"`, p)
	case statement.CreateFolder:
		return fmt.Sprintf(`created a new folder at "%s"`, p)
	case statement.DeleteFile:
		return fmt.Sprintf(`deleted a file at "%s"`, p)
	case statement.DeleteFolder:
		return fmt.Sprintf(`deleted a folder at "%s"`, p)
	case statement.DeleteForce:
		return fmt.Sprintf(`file/folder at "%s" is deleted (or not found!)`, p)
	case statement.Write:
		return fmt.Sprintf(`wrote the specified content in "%s"`, p)
	case statement.Append:
		return fmt.Sprintf(`appended the specified content in "%s"`, p)
	case statement.Rename:
		return fmt.Sprintf(`renamed "%s" to "%s"`, p, o.target(1))
	default:
		return fmt.Sprintf("%s %s", o.Kind, quoteAll(o.Targets))
	}
}

var verbs = map[statement.Kind]string{
	statement.CreateFile:   "create file",
	statement.CreateFolder: "create folder",
	statement.DeleteFile:   "delete file",
	statement.DeleteFolder: "delete folder",
	statement.DeleteForce:  "force delete",
	statement.Write:        "write",
	statement.Append:       "append",
	statement.Rename:       "rename",
}

func (o Outcome) subject() string {
	verb, ok := verbs[o.Kind]
	if !ok {
		verb = string(o.Kind)
	}
	switch {
	case len(o.Targets) == 0:
		return verb
	case o.Kind == statement.Rename && len(o.Targets) == 2:
		return fmt.Sprintf(`%s "%s" to "%s"`, verb, o.Targets[0], o.Targets[1])
	default:
		return verb + " " + quoteAll(o.Targets)
	}
}

func quoteAll(ss []string) string {
	quoted := make([]string, len(ss))
	for i, s := range ss {
		quoted[i] = `"` + s + `"`
	}
	return strings.Join(quoted, " ")
}

// Summary counts the outcomes of one dispatch pass.
type Summary struct {
	Kinds         []statement.Kind
	Succeeded     int
	AlreadyExists int
	Failed        int
}

func (s *Summary) add(kind statement.Kind, outcomes []Outcome) {
	s.Kinds = append(s.Kinds, kind)
	for _, o := range outcomes {
		switch o.Status {
		case Succeeded:
			s.Succeeded++
		case AlreadyExists:
			s.AlreadyExists++
		default:
			s.Failed++
		}
	}
}

// Total returns the number of outcomes.
func (s Summary) Total() int {
	return s.Succeeded + s.AlreadyExists + s.Failed
}

// OK returns true if no outcome failed.
func (s Summary) OK() bool {
	return s.Failed == 0
}

func (s Summary) String() string {
	return fmt.Sprintf("%d succeeded, %d already existed, %d failed", s.Succeeded, s.AlreadyExists, s.Failed)
}
