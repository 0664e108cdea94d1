// Copyright 2025 Nguyen Nhat Nguyen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package testkit

import "fmt"

const unbounded = -1

// Times is an expected call count.
type Times struct {
	min  int
	max  int
	desc string
}

func Never() Times { return Times{min: 0, max: 0, desc: "never"} }

func Once() Times { return Times{min: 1, max: 1, desc: "exactly once"} }

func AtMostOnce() Times { return Times{min: 0, max: 1, desc: "at most once"} }

func AtLeastOnce() Times { return Times{min: 1, max: unbounded, desc: "at least once"} }

func Exactly(n int) Times {
	return Times{min: n, max: n, desc: fmt.Sprintf("exactly %d times", n)}
}

func AtLeast(n int) Times {
	return Times{min: n, max: unbounded, desc: fmt.Sprintf("at least %d times", n)}
}

func AtMost(n int) Times {
	return Times{min: 0, max: n, desc: fmt.Sprintf("at most %d times", n)}
}

// Between matches counts in [lo, hi].
func Between(lo, hi int) Times {
	return Times{min: lo, max: hi, desc: fmt.Sprintf("between %d and %d times", lo, hi)}
}

// Matches reports whether n calls satisfy the expectation.
func (t Times) Matches(n int) bool {
	if n < t.min {
		return false
	}
	return t.max == unbounded || n <= t.max
}

func (t Times) String() string {
	if t.desc == "" {
		return "never"
	}
	return t.desc
}
