// Package personnummer validates Swedish national identity numbers
// (personnummer) and coordination numbers (samordningsnummer).
//
// Validation is a fixed pipeline: the identifier is parsed structurally, the
// year fragment is expanded against a reference date, the birth date is built
// (removing the coordination offset of 60 from the day), the separator is
// checked against the holder's age, and finally the Luhn check digit over the
// ten-digit form is verified. The first failing stage decides the verdict.
//
// Domain Purity: This package contains only pure domain logic with no I/O,
// no context.Context, and no time.Now() calls. The reference date is always
// received as a parameter from the caller.
package personnummer
