// Copyright 2018 Fabian Wenzelmann
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package photomosaic

import (
	"math"
	"testing"
)

func TestEuclideanDistance(t *testing.T) {
	tests := []struct {
		p, q     []float64
		expected float64
	}{
		{[]float64{0, 0, 0}, []float64{0, 0, 0}, 0},
		{[]float64{0, 0, 0}, []float64{3, 4, 0}, 5},
		{[]float64{255, 0, 0}, []float64{250, 5, 5}, math.Sqrt(75)},
		{[]float64{1, 1, 1}, []float64{0, 0, 0}, math.Sqrt(3)},
	}
	for _, tc := range tests {
		got := EuclideanDistance(tc.p, tc.q)
		if math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("EuclideanDistance(%v, %v) = %f, expected %f", tc.p, tc.q, got, tc.expected)
		}
	}
}
