/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

const (
	UserAgent         = "uqlt/0.4.0 (+https://github.com/mikeb26/uqlt)"
	QuakeLiveBaseURL  = "http://www.quakelive.com"
	QLRanksBaseURL    = "http://www.qlranks.com"
	DefaultConfigPath = "uqlt.yml"
	DefaultFilterPath = "filter.json"
	DefaultRatingsDB  = "ratings.db"
)
