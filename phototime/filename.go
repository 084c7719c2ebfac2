/*
	Phototimefix
	Copyright (c) 2025 The Phototimefix Authors

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package phototime

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// A nameRule recognizes one camera or app naming convention. The pattern
// may match anywhere in the name; extract turns the leftmost match into a
// Time, or reports false when the digits do not survive validation.
type nameRule struct {
	re      *regexp.Regexp
	extract func(m []string, name string) (Time, bool)
}

// nameRules are tried in order and the first rule that both matches and
// validates wins; a rule whose match fails validation falls through to
// the next. The order is the policy: the compact date+time pair must beat
// the bare date, and the bare date must beat the epoch digits.
var nameRules = []nameRule{
	// Compact date+time pair, the common camera shape: 20160331_202334.
	{
		re: regexp.MustCompile(`(\d{8})[_-](\d{6})`),
		extract: func(m []string, _ string) (Time, bool) {
			return compactDateTime(m[1], m[2])
		},
	},
	// One photo app writes pt2023_06_23_19_06_38 with underscores.
	{
		re: regexp.MustCompile(`pt(\d{4})_(\d{2})_(\d{2})_(\d{2})_(\d{2})_(\d{2})`),
		extract: func(m []string, _ string) (Time, bool) {
			return New(atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4]), atoi(m[5]), atoi(m[6]))
		},
	},
	// Android screenshots: Screenshot_2023-06-23-19-06-38, sometimes with
	// trailing components after the seconds.
	{
		re: regexp.MustCompile(`Screenshot_(\d{4})-(\d{2})-(\d{2})-(\d{2})-(\d{2})-(\d{2})`),
		extract: func(m []string, _ string) (Time, bool) {
			return New(atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4]), atoi(m[5]), atoi(m[6]))
		},
	},
	// Bare 8-digit date. WeChat exports ("mmexport...") skip this rule:
	// their digits are a millisecond epoch, not a date.
	{
		re: regexp.MustCompile(`\d{8}`),
		extract: func(m []string, name string) (Time, bool) {
			if strings.HasPrefix(name, "mmexport") {
				return Time{}, false
			}
			return NewDate(atoi(m[0][:4]), atoi(m[0][4:6]), atoi(m[0][6:8]))
		},
	},
	// Unix epoch immediately before the extension: 10 digits are seconds,
	// 13 are milliseconds.
	{
		re: regexp.MustCompile(`(\d{10}|\d{13})\.\w+$`),
		extract: func(m []string, _ string) (Time, bool) {
			return epochDigits(m[1])
		},
	},
}

// ParseFilename extracts a capture time from a photo's base name, trying
// each naming convention in nameRules in order. It reports false when no
// convention yields a valid time.
func ParseFilename(name string) (Time, bool) {
	for _, rule := range nameRules {
		m := rule.re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		if t, ok := rule.extract(m, name); ok {
			return t, true
		}
	}
	// WeChat sometimes buries the millisecond epoch mid-stem, after a
	// hash: mmexport<hex>_<epoch>_edited.jpg. Recover it from the last
	// run of exactly 13 consecutive digits.
	if strings.HasPrefix(name, "mmexport") {
		return mmexportTailEpoch(name)
	}
	return Time{}, false
}

var digitRuns = regexp.MustCompile(`\d+`)

func mmexportTailEpoch(name string) (Time, bool) {
	stem := name
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		stem = name[:i]
	}
	runs := digitRuns.FindAllString(stem, -1)
	for i := len(runs) - 1; i >= 0; i-- {
		if len(runs[i]) != 13 {
			continue
		}
		ms, err := strconv.ParseInt(runs[i], 10, 64)
		if err != nil {
			continue
		}
		t, ok := FromUnixMilli(ms)
		if !ok {
			continue
		}
		Log.Warn("recovered epoch buried in mmexport name; worth a manual look",
			zap.String("filename", name),
			zap.String("digits", runs[i]),
			zap.String("parsed", t.String()))
		return t, true
	}
	return Time{}, false
}

func compactDateTime(d8, t6 string) (Time, bool) {
	return New(atoi(d8[:4]), atoi(d8[4:6]), atoi(d8[6:8]),
		atoi(t6[:2]), atoi(t6[2:4]), atoi(t6[4:6]))
}

func epochDigits(digits string) (Time, bool) {
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Time{}, false
	}
	if len(digits) == 13 {
		return FromUnixMilli(n)
	}
	return FromUnixSeconds(n)
}

// atoi is for digit runs already vetted by a pattern; they cannot fail
// conversion.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
