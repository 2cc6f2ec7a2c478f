// Package errors provides structured errors for rise-gen.
//
// Errors carry a Code, a message, an optional cause and metadata. Content
// definition failures (unknown abilities, bad effect tags, invalid attack
// types, unrecognized spells, impossible multiclass splits) additionally
// carry a reason tag so callers can tell them apart without string matching:
//
//	ab, err := catalog.ByName("rgae", nil)
//	if errors.HasReason(err, errors.ReasonUnknownAbility) {
//	    // fix the creature definition
//	}
//
// Wrapping keeps both the code and the metadata of the wrapped error:
//
//	if err := c.addAbility(name); err != nil {
//	    return nil, errors.Wrapf(err, "creature %s", props.Name)
//	}
//
// Configuration structs validate with the builder:
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRange("trials", cfg.Trials, 1, 1_000_000, vb)
//	if err := vb.Build(); err != nil {
//	    return err
//	}
//
// Expected simulation outcomes (misses, absorbed damage, stalemates) are
// results, not errors.
package errors
