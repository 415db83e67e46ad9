// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"errors"
	"fmt"

	"github.com/declwire/declwire/pkg/typeinfo"
)

const (
	// KindContractMismatch: a type is registered for a contract it does not implement.
	KindContractMismatch ErrorKind = "contract-mismatch"
	// KindDuplicateClaim: one type's intents claim the same contract twice.
	KindDuplicateClaim ErrorKind = "duplicate-claim"
	// KindConflictingRegistration: two unrelated implementations claim one contract.
	KindConflictingRegistration ErrorKind = "conflicting-registration"
	// KindInvalidLifetimeIntent: an intent carries an unsupported lifetime.
	KindInvalidLifetimeIntent ErrorKind = "invalid-lifetime"
	// KindMultipleSingleValuedAnnotations: a type carries more than one list membership declaration.
	KindMultipleSingleValuedAnnotations ErrorKind = "multiple-single-valued-annotations"
)

var (
	// ErrContractMismatch is the sentinel for KindContractMismatch.
	ErrContractMismatch = errors.New("contract mismatch")
	// ErrDuplicateClaim is the sentinel for KindDuplicateClaim.
	ErrDuplicateClaim = errors.New("duplicate claim")
	// ErrConflictingRegistration is the sentinel for KindConflictingRegistration.
	ErrConflictingRegistration = errors.New("conflicting registration")
	// ErrInvalidLifetimeIntent is the sentinel for KindInvalidLifetimeIntent.
	ErrInvalidLifetimeIntent = errors.New("invalid lifetime intent")
	// ErrMultipleSingleValuedAnnotations is the sentinel for KindMultipleSingleValuedAnnotations.
	ErrMultipleSingleValuedAnnotations = errors.New("multiple single-valued annotations")

	// ErrSealed is returned when registering into a sealed resolver.
	ErrSealed = errors.New("resolver is sealed")

	// ErrBindingCycle is returned by Plan when the alias relation is cyclic.
	// Resolution never produces one; seeing it indicates a bug.
	ErrBindingCycle = errors.New("binding alias cycle")

	sentinels = map[ErrorKind]error{
		KindContractMismatch:                ErrContractMismatch,
		KindDuplicateClaim:                  ErrDuplicateClaim,
		KindConflictingRegistration:         ErrConflictingRegistration,
		KindInvalidLifetimeIntent:           ErrInvalidLifetimeIntent,
		KindMultipleSingleValuedAnnotations: ErrMultipleSingleValuedAnnotations,
	}
)

type (
	// ErrorKind classifies a RegistrationError.
	ErrorKind string

	// RegistrationError aborts a resolution pass. It names the contract and
	// the implementations involved; match the kind with errors.Is against
	// the Err* sentinels.
	RegistrationError struct {
		Kind ErrorKind
		// Contract is the contract being bound when the error occurred. Empty
		// for errors about the type as a whole.
		Contract typeinfo.TypeID
		// Implementation is the type being processed.
		Implementation typeinfo.TypeID
		// Existing is the implementation already bound, when one is involved.
		Existing typeinfo.TypeID
		// Lifetime is set for KindInvalidLifetimeIntent.
		Lifetime typeinfo.Lifetime
		// Origin is where Implementation was declared, if known.
		Origin string
	}
)

func (e *RegistrationError) Error() string {
	var msg string
	switch e.Kind {
	case KindContractMismatch:
		msg = fmt.Sprintf("%s cannot be registered for %s: it does not implement that contract", e.Implementation, e.Contract)
	case KindDuplicateClaim:
		msg = fmt.Sprintf("%s claims %s more than once across its registration intents", e.Implementation, e.Contract)
	case KindConflictingRegistration:
		msg = fmt.Sprintf("%s cannot be registered for %s: already bound to %s, which is neither a base type nor explicitly overridden",
			e.Implementation, e.Contract, e.Existing)
	case KindInvalidLifetimeIntent:
		msg = fmt.Sprintf("%s declares unsupported lifetime %q", e.Implementation, e.Lifetime)
	case KindMultipleSingleValuedAnnotations:
		msg = fmt.Sprintf("%s declares more than one list membership", e.Implementation)
	default:
		msg = fmt.Sprintf("%s: registration failed (%s)", e.Implementation, e.Kind)
	}
	if e.Origin != "" {
		msg += " (declared in " + e.Origin + ")"
	}
	return msg
}

// Unwrap returns the sentinel matching Kind.
func (e *RegistrationError) Unwrap() error {
	return sentinels[e.Kind]
}
