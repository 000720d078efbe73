// SPDX-License-Identifier: MIT

package cdt

// SummarizeRates exposes the throughput reduction to cdt_test.
var SummarizeRates = summarize
