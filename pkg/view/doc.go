// Package view turns records, scales and interaction state into drawable
// primitives for the four linked views.
//
// Adapters are pure: given the same records, scales, selection and filter
// state they return the same drawables. Highlight styling is a pure function
// of (selection, city) per drawable [Kind]; see [StyleFor].
//
// Drawables are in panel-local pixel coordinates. A rendering backend only
// has to place each panel and draw what it is given.
package view
