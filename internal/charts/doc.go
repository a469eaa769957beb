// Package charts renders the monthly sales trend and the top products ranking
// as images with gonum.org/v1/plot.
//
// The renderer only draws. Grouping, sorting and truncation happen in the
// dataprocessing package, so the aggregate slices passed here are plotted
// exactly as given.
package charts
