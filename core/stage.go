package core

// =============================================================================
// VALIDATION STAGES - Type parameters for rule holders
// =============================================================================
//
// A rule holder is declared as Holder[S Stage]. Everything that builds or
// edits a holder returns Holder[Unvalidated]; one validation function turns
// Holder[Unvalidated] into Holder[Validated]. Code that must only see checked
// data asks for Holder[Validated], and the compiler rejects the other stage.
//
// There is no conversion from Validated back to Unvalidated in this package.

// Unvalidated tags rule data that has not been checked yet.
type Unvalidated struct{}

// Validated tags rule data that passed every consistency check.
type Validated struct{}

// Stage is the set of validation stages. Only the two markers satisfy it.
type Stage interface {
	Unvalidated | Validated
}

func (Unvalidated) String() string { return "unvalidated" }
func (Validated) String() string   { return "validated" }

// StageOrder returns the position of S in the lifecycle: Unvalidated is 0,
// Validated is 1.
func StageOrder[S Stage]() int {
	var s S
	if _, ok := any(s).(Validated); ok {
		return 1
	}
	return 0
}

// StageName returns the name of S.
func StageName[S Stage]() string {
	var s S
	switch x := any(s).(type) {
	case Validated:
		return x.String()
	case Unvalidated:
		return x.String()
	}
	return ""
}
