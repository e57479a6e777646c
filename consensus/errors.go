package consensus

import (
	"fmt"

	"rubin.dev/node/hashes"
)

// RuleErrorKind enumerates the header/block consensus rule violations.
type RuleErrorKind string

const (
	WrongBlockVersion       RuleErrorKind = "WRONG_BLOCK_VERSION"
	TimeTooFarIntoTheFuture RuleErrorKind = "TIME_TOO_FAR_INTO_THE_FUTURE"
	NoParents               RuleErrorKind = "NO_PARENTS"
	TooManyParents          RuleErrorKind = "TOO_MANY_PARENTS"
	OriginParent            RuleErrorKind = "ORIGIN_PARENT"
	InvalidParent           RuleErrorKind = "INVALID_PARENT"
	MissingParents          RuleErrorKind = "MISSING_PARENTS"
	InvalidParentsRelation  RuleErrorKind = "INVALID_PARENTS_RELATION"
	InvalidPoW              RuleErrorKind = "INVALID_POW"
)

// RuleError is a single consensus rule violation. Exactly one of the typed
// fields below is populated depending on Kind; callers that need the
// structured payload (e.g. MissingParents' list, for ingest-queue
// deferral) read the matching field directly.
type RuleError struct {
	Kind RuleErrorKind

	GotVersion uint16

	Timestamp    uint64
	MaxTimestamp uint64

	GotParents int
	MaxParents int

	Parent hashes.Hash

	Missing []hashes.Hash

	ParentA hashes.Hash
	ParentB hashes.Hash
}

func (e *RuleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case WrongBlockVersion:
		return fmt.Sprintf("%s: got version %d", e.Kind, e.GotVersion)
	case TimeTooFarIntoTheFuture:
		return fmt.Sprintf("%s: timestamp %d exceeds max %d", e.Kind, e.Timestamp, e.MaxTimestamp)
	case NoParents:
		return string(e.Kind)
	case TooManyParents:
		return fmt.Sprintf("%s: got %d, max %d", e.Kind, e.GotParents, e.MaxParents)
	case OriginParent:
		return string(e.Kind)
	case InvalidParent:
		return fmt.Sprintf("%s: %s", e.Kind, e.Parent)
	case MissingParents:
		return fmt.Sprintf("%s: %v", e.Kind, e.Missing)
	case InvalidParentsRelation:
		return fmt.Sprintf("%s: %s is an ancestor of %s", e.Kind, e.ParentA, e.ParentB)
	case InvalidPoW:
		return string(e.Kind)
	default:
		return string(e.Kind)
	}
}

func errWrongBlockVersion(got uint16) *RuleError {
	return &RuleError{Kind: WrongBlockVersion, GotVersion: got}
}

func errTimeTooFarIntoTheFuture(ts, max uint64) *RuleError {
	return &RuleError{Kind: TimeTooFarIntoTheFuture, Timestamp: ts, MaxTimestamp: max}
}

func errNoParents() *RuleError {
	return &RuleError{Kind: NoParents}
}

func errTooManyParents(got, max int) *RuleError {
	return &RuleError{Kind: TooManyParents, GotParents: got, MaxParents: max}
}

func errOriginParent() *RuleError {
	return &RuleError{Kind: OriginParent}
}

func errInvalidParent(parent hashes.Hash) *RuleError {
	return &RuleError{Kind: InvalidParent, Parent: parent}
}

func errMissingParents(missing []hashes.Hash) *RuleError {
	return &RuleError{Kind: MissingParents, Missing: missing}
}

func errInvalidParentsRelation(a, b hashes.Hash) *RuleError {
	return &RuleError{Kind: InvalidParentsRelation, ParentA: a, ParentB: b}
}

func errInvalidPoW() *RuleError {
	return &RuleError{Kind: InvalidPoW}
}
