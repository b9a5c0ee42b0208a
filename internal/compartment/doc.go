// Package compartment holds the catalog of compartmental epidemic models.
//
// Every model is a pure vector field over population fractions with time
// measured in units of the mean recovery time, so the first parameter is
// always the basic reproduction number. A model is added by one call to
// register with its [Definition]; nothing else dispatches on [Variant].
//
// All fields conserve the total population on the unit simplex: when the
// fractions sum to one, the components of dX/dt sum to zero.
package compartment
