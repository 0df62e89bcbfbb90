// Package density estimates a smoothed density curve for one category of
// samples and shapes its tails for drawing as a violin.
//
// # Estimation
//
// The curve is evaluated on a fixed grid spanning the value-axis domain (the
// grid size is set by [Resolution]) plus the sample extent itself:
//
//	y(x) = 1/(n*h) * sum K((x - v) / h)
//
// where K is a [kernel.Kernel] window and h the bandwidth.
//
// # Boundary policies
//
// In clamp mode the curve is cut at the sample extent: only points inside
// [min, max] with a non-zero density are kept.
//
// In converge mode (the default) each tail is extended outward until the
// density reaches zero. The nearest zero-valued grid point beyond the sample
// extent is used when there is one. Otherwise a root search steps outward from
// the extent, doubling its distance until the density falls below a negligible
// fraction of the peak, then bisects back towards the data. When the search
// runs out of iterations the sample extent is used instead. A zero point is
// inserted at each convergence location and everything beyond it is
// discarded, so each tail ends in exactly one zero.
//
// Convergence points outside the value-axis domain are reported as a
// [DomainRequest]; the caller widens the axis and runs its layout again.
package density
