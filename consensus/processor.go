package consensus

import "rubin.dev/node/hashes"

// StatusesReader is the narrow read contract the header processor needs
// from the statuses store (C6).
type StatusesReader interface {
	Get(hash hashes.Hash) (status BlockStatus, found bool, err error)
}

// ReachabilityReader answers DAG ancestry queries (C8).
type ReachabilityReader interface {
	IsDAGAncestorOf(a, b hashes.Hash) (bool, error)
}

// Params is the subset of network-wide consensus parameters the header
// processor needs. dagcfg.Params satisfies this.
type Params struct {
	BlockVersion                       uint16
	MaxBlockParents                    int
	MaxBlockLevel                      hashes.BlockLevel
	TimestampDeviationToleranceSeconds uint64
	SkipProofOfWork                    bool
}

// NowFunc returns the current time in milliseconds since epoch. Tests
// inject a fixed clock; production wires time.Now().
type NowFunc func() uint64

// HeaderProcessor runs the pre-ordering header checks: in-isolation
// validation of a single header, then validation against its parents.
type HeaderProcessor struct {
	Params       Params
	Statuses     StatusesReader
	Reachability ReachabilityReader
	Now          NowFunc
}

// ValidateHeaderInIsolation runs the five in-isolation rules (version,
// timestamp, parents limit, parents-not-origin, PoW) in order and
// returns the header's derived block level on success.
func (p *HeaderProcessor) ValidateHeaderInIsolation(h Header) (hashes.BlockLevel, error) {
	if err := p.checkHeaderVersion(h); err != nil {
		return 0, err
	}
	if err := p.checkTimestamp(h); err != nil {
		return 0, err
	}
	if err := p.checkParentsLimit(h); err != nil {
		return 0, err
	}
	if err := checkParentsNotOrigin(h); err != nil {
		return 0, err
	}
	return checkPowAndCalcBlockLevel(h, p.Params.MaxBlockLevel, p.Params.SkipProofOfWork)
}

// ValidateParentRelations runs the two relations-against-store rules.
func (p *HeaderProcessor) ValidateParentRelations(h Header) error {
	if err := p.checkParentsExist(h); err != nil {
		return err
	}
	return p.checkParentsIncest(h)
}

func (p *HeaderProcessor) checkHeaderVersion(h Header) error {
	if h.Version != p.Params.BlockVersion {
		return errWrongBlockVersion(h.Version)
	}
	return nil
}

func (p *HeaderProcessor) checkTimestamp(h Header) error {
	maxTimestamp := p.Now() + p.Params.TimestampDeviationToleranceSeconds*1000
	if h.Timestamp > maxTimestamp {
		return errTimeTooFarIntoTheFuture(h.Timestamp, maxTimestamp)
	}
	return nil
}

func (p *HeaderProcessor) checkParentsLimit(h Header) error {
	parents := h.DirectParents()
	if len(parents) == 0 {
		return errNoParents()
	}
	if len(parents) > p.Params.MaxBlockParents {
		return errTooManyParents(len(parents), p.Params.MaxBlockParents)
	}
	return nil
}

func checkParentsNotOrigin(h Header) error {
	for _, parent := range h.DirectParents() {
		if parent.IsOrigin() {
			return errOriginParent()
		}
	}
	return nil
}

func (p *HeaderProcessor) checkParentsExist(h Header) error {
	var missing []hashes.Hash
	for _, parent := range h.DirectParents() {
		status, found, err := p.Statuses.Get(parent)
		if err != nil {
			return err
		}
		if !found {
			missing = append(missing, parent)
			continue
		}
		if status == StatusInvalid {
			return errInvalidParent(parent)
		}
	}
	if len(missing) > 0 {
		return errMissingParents(missing)
	}
	return nil
}

func (p *HeaderProcessor) checkParentsIncest(h Header) error {
	parents := h.DirectParents()
	for _, a := range parents {
		for _, b := range parents {
			if a == b {
				continue
			}
			isAncestor, err := p.Reachability.IsDAGAncestorOf(a, b)
			if err != nil {
				return err
			}
			if isAncestor {
				return errInvalidParentsRelation(a, b)
			}
		}
	}
	return nil
}
