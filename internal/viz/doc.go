// Package viz renders runs for the terminal.
//
//   - [PropertyPlots]: Lambda, normalised random energy and radial offsets
//     from corotation as asciigraph line plots
//   - [NewPortrait] and [RenderPortrait]: the orbit in the pattern frame
//     over the capture region, resonance circles and spiral arms, either as
//     glyph layers or as a braille line trace on a [Canvas]
//   - [RenderSummary]: a lipgloss panel with the trapping class and
//     per-run scalars
package viz
