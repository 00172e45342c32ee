// Package io exports a loaded city dataset to JSON or CSV and imports it
// back.
//
// # Overview
//
// Exports are normalized: every source (CSV, JSON, SQLite, MongoDB) is
// written with the same column names and typed values, so an export can be
// fed back into any citylink command:
//
//   - Snapshotting a database source into a portable file
//   - Cleaning a CSV (trimmed values, empty numbers written as 0)
//   - Round-trip preservation: load, export and re-load identically
//
// # JSON Format
//
// The JSON format is an array of row objects keyed by column name:
//
//	[
//	  {
//	    "City": "Lagos",
//	    "Country": "Nigeria",
//	    "Continent": "Africa",
//	    "Population (2024)": 16500000,
//	    "Population (2023)": 16000000,
//	    "Growth Rate": 500000,
//	    "Growth Rate (%)": 3.125,
//	    "Latitude": 6.45,
//	    "Longitude": 3.39
//	  }
//	]
//
// # CSV Format
//
// The CSV format has one header row with the same column names, in the
// order above.
package io
