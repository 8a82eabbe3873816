// Package io reads and writes valve networks.
//
// # Overview
//
// Two formats are supported. The text format is the line-oriented report
// produced by the scanning device:
//
//	Valve AA has flow rate=0; tunnels lead to valves DD, II, BB
//	Valve HH has flow rate=22; tunnel leads to valve GG
//
// Singular and plural spellings ("tunnel leads to valve" and "tunnels lead
// to valves") are both accepted. Blank lines are ignored.
//
// The JSON format is an object with a single "valves" array:
//
//	{
//	  "valves": [
//	    {"id": "AA", "flow_rate": 0, "tunnels": ["DD", "II", "BB"]},
//	    {"id": "HH", "flow_rate": 22, "tunnels": ["GG"]}
//	  ]
//	}
//
// # Import
//
// Use [ReadText] or [ReadJSON] to decode from any io.Reader, or [ImportFile]
// to read a file, picking the format from its extension (".json" is JSON,
// anything else is text):
//
//	n, err := io.ImportFile("input.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Every reader validates the result with network.New, so structural problems
// such as duplicate valves or dangling tunnels surface as the network
// package's sentinel errors. Text syntax errors wrap [ErrSyntax] and carry the
// offending line number.
//
// # Export
//
// Use [WriteJSON] or [ExportJSON] to write a network in the JSON format.
// [MarshalNetwork] returns a compact canonical encoding (valves and tunnels
// sorted) whose bytes depend only on the network's content. The pipeline
// hashes it to build cache keys.
package io
