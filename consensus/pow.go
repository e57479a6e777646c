package consensus

import (
	"math/big"

	"rubin.dev/node/hashes"
)

// Target decodes the compact "bits" difficulty representation into the
// full-precision target a header's hash must not exceed. This is the
// standard compact-float encoding: 3-byte mantissa, 1-byte base-256
// exponent.
func Target(bits uint32) *big.Int {
	exponent := bits >> 24
	mantissa := int64(bits & 0x007fffff)
	target := big.NewInt(mantissa)
	switch {
	case exponent <= 3:
		shift := uint((3 - exponent) * 8)
		target.Rsh(target, shift)
	default:
		shift := uint((exponent - 3) * 8)
		target.Lsh(target, shift)
	}
	return target
}

// checkPowAndCalcBlockLevel computes PoW state from the header, accepts
// if it meets the target (or PoW is globally disabled), and returns the
// derived block level: max(0, maxBlockLevel - bitlen(pow)).
func checkPowAndCalcBlockLevel(h Header, maxBlockLevel hashes.BlockLevel, skipProofOfWork bool) (hashes.BlockLevel, error) {
	target := Target(h.Bits)
	hash := BlockHeaderHash(h)
	powValue := new(big.Int).SetBytes(hash[:])

	passed := powValue.Cmp(target) <= 0
	if !passed && !skipProofOfWork {
		return 0, errInvalidPoW()
	}

	bitsOfPow := powValue.BitLen()
	signedLevel := int64(maxBlockLevel) - int64(bitsOfPow)
	if signedLevel < 0 {
		return 0, nil
	}
	if signedLevel > int64(maxBlockLevel) {
		signedLevel = int64(maxBlockLevel)
	}
	return hashes.BlockLevel(signedLevel), nil
}

// ComputeBlockLevel exports checkPowAndCalcBlockLevel's level derivation
// for callers outside this package; pruning-proof validation needs the
// same level-from-PoW computation the header processor uses.
func ComputeBlockLevel(h Header, maxBlockLevel hashes.BlockLevel, skipProofOfWork bool) (hashes.BlockLevel, error) {
	return checkPowAndCalcBlockLevel(h, maxBlockLevel, skipProofOfWork)
}
