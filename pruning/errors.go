package pruning

import (
	"fmt"

	"rubin.dev/node/hashes"
)

// Kind enumerates the pruning-proof rule violations.
type Kind int

const (
	KindNotEnoughLevels Kind = iota
	KindWrongBlockLevel
	KindHeaderWithNoKnownParents
	KindMissingBlockAtDepthMFromNextLevel
	KindMissesBlocksBelowPruningPoint
	KindSelectedTipIsNotThePruningPoint
	KindSelectedTipNotParentOfPruningPoint
	KindInsufficientBlueWork
	KindNotEnoughHeaders
	KindDuplicateHeaderAtLevel
	KindPastMissingReachability
	KindPruningPointTxError
	KindPruningPointTxErrors
	KindPruningPointTxMissingUTXOEntry
	KindImportedMultisetHashMismatch
	KindValidationInterrupted
)

// Error is the pruning package's single error type, carrying whichever
// fields its Kind needs.
type Error struct {
	Kind Kind

	Hash  hashes.Hash
	Level hashes.BlockLevel

	GotLevel  hashes.BlockLevel
	WantLevel hashes.BlockLevel

	NextLevel hashes.BlockLevel

	Expected hashes.Hash
	Actual   hashes.Hash

	Cause error
	Txs   []*Error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNotEnoughLevels:
		return "pruning proof does not have enough levels"
	case KindWrongBlockLevel:
		return fmt.Sprintf("pruning proof header %s has block level %d, expected %d", e.Hash, e.GotLevel, e.WantLevel)
	case KindHeaderWithNoKnownParents:
		return fmt.Sprintf("pruning proof header %s at level %d has no known parents", e.Hash, e.Level)
	case KindMissingBlockAtDepthMFromNextLevel:
		return fmt.Sprintf("pruning proof level %d is missing the block at depth m from level %d's selected tip", e.Level, e.NextLevel)
	case KindMissesBlocksBelowPruningPoint:
		return fmt.Sprintf("pruning proof misses blocks below the pruning point at level %d (tip %s)", e.Level, e.Hash)
	case KindSelectedTipIsNotThePruningPoint:
		return fmt.Sprintf("pruning proof level %d selected tip %s is not the pruning point", e.Level, e.Hash)
	case KindSelectedTipNotParentOfPruningPoint:
		return fmt.Sprintf("pruning proof level %d selected tip %s is not a parent of the pruning point", e.Level, e.Hash)
	case KindInsufficientBlueWork:
		return "pruning proof has insufficient blue work"
	case KindNotEnoughHeaders:
		return "pruning proof does not have enough headers"
	case KindDuplicateHeaderAtLevel:
		return fmt.Sprintf("pruning proof has a duplicate header %s at level %d", e.Hash, e.Level)
	case KindPastMissingReachability:
		return fmt.Sprintf("trusted block %s is not reachable from the pruning point's past", e.Hash)
	case KindPruningPointTxError:
		if e.Cause != nil {
			return fmt.Sprintf("new pruning point has an invalid transaction %s: %s", e.Hash, e.Cause)
		}
		return fmt.Sprintf("new pruning point has an invalid transaction %s", e.Hash)
	case KindPruningPointTxErrors:
		return fmt.Sprintf("new pruning point has %d invalid transactions", len(e.Txs))
	case KindPruningPointTxMissingUTXOEntry:
		return fmt.Sprintf("new pruning point transaction %s is missing a UTXO entry", e.Hash)
	case KindImportedMultisetHashMismatch:
		return fmt.Sprintf("imported multiset hash mismatch: expected %s, got %s", e.Expected, e.Actual)
	case KindValidationInterrupted:
		return "pruning proof validation was interrupted"
	default:
		return "pruning: unknown error"
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func errNotEnoughLevels() *Error { return &Error{Kind: KindNotEnoughLevels} }

func errWrongBlockLevel(h hashes.Hash, got, want hashes.BlockLevel) *Error {
	return &Error{Kind: KindWrongBlockLevel, Hash: h, GotLevel: got, WantLevel: want}
}

func errHeaderWithNoKnownParents(h hashes.Hash, level hashes.BlockLevel) *Error {
	return &Error{Kind: KindHeaderWithNoKnownParents, Hash: h, Level: level}
}

func errMissingBlockAtDepthMFromNextLevel(level, nextLevel hashes.BlockLevel) *Error {
	return &Error{Kind: KindMissingBlockAtDepthMFromNextLevel, Level: level, NextLevel: nextLevel}
}

func errMissesBlocksBelowPruningPoint(h hashes.Hash, level hashes.BlockLevel) *Error {
	return &Error{Kind: KindMissesBlocksBelowPruningPoint, Hash: h, Level: level}
}

func errSelectedTipIsNotThePruningPoint(h hashes.Hash, level hashes.BlockLevel) *Error {
	return &Error{Kind: KindSelectedTipIsNotThePruningPoint, Hash: h, Level: level}
}

func errSelectedTipNotParentOfPruningPoint(h hashes.Hash, level hashes.BlockLevel) *Error {
	return &Error{Kind: KindSelectedTipNotParentOfPruningPoint, Hash: h, Level: level}
}

func errInsufficientBlueWork() *Error { return &Error{Kind: KindInsufficientBlueWork} }

func errNotEnoughHeaders() *Error { return &Error{Kind: KindNotEnoughHeaders} }

func errDuplicateHeaderAtLevel(h hashes.Hash, level hashes.BlockLevel) *Error {
	return &Error{Kind: KindDuplicateHeaderAtLevel, Hash: h, Level: level}
}

func errPastMissingReachability(h hashes.Hash) *Error {
	return &Error{Kind: KindPastMissingReachability, Hash: h}
}

// NewPruningPointTxError reports a single invalid pruning-point transaction.
func NewPruningPointTxError(h hashes.Hash, cause error) *Error {
	return &Error{Kind: KindPruningPointTxError, Hash: h, Cause: cause}
}

// NewPruningPointTxErrors aggregates more than one invalid pruning-point
// transaction into a single collective failure.
func NewPruningPointTxErrors(txs []*Error) *Error {
	return &Error{Kind: KindPruningPointTxErrors, Txs: txs}
}

// NewPruningPointTxMissingUTXOEntry reports a pruning-point transaction
// whose input has no corresponding entry in the imported UTXO set.
func NewPruningPointTxMissingUTXOEntry(h hashes.Hash) *Error {
	return &Error{Kind: KindPruningPointTxMissingUTXOEntry, Hash: h}
}

func errImportedMultisetHashMismatch(expected, actual hashes.Hash) *Error {
	return &Error{Kind: KindImportedMultisetHashMismatch, Expected: expected, Actual: actual}
}

// ErrValidationInterrupted signals a cooperative abort mid-validation,
// not a rule violation.
func ErrValidationInterrupted() *Error { return &Error{Kind: KindValidationInterrupted} }
