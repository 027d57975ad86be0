// Package markowitz computes optimal capital allocations across a set of
// financial instruments under the mean-variance (Markowitz) framework.
//
// The core functionalities include:
//   - Return estimation: turning price histories into holding-period returns,
//     aligned across instruments on their common dates.
//   - Covariance estimation: an annualized mean return vector and the sample
//     covariance matrix of the aligned returns, computed once and immutable.
//   - Analytic portfolios: the minimum-variance and the tangency portfolios,
//     in closed form through the inverse covariance matrix.
//   - Constrained optimization: the long-only portfolio of minimum variance for
//     a given target return, solved by an active-set quadratic program.
//   - Efficient frontier: a sweep of target returns across the range of the
//     instruments' mean returns.
//
// Market data is obtained through the HistoryFetcher interface. This package
// serves as the foundational logic for the `mvo` command-line tool.
package markowitz
