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
	"gonum.org/v1/gonum/floats"
)

// VectorMetric is a function that takes two vectors of the same length and
// returns a metric value ("distance") of the two.
// The smaller the metric value is the more equal the vectors are considered.
type VectorMetric func(p, q []float64) float64

// EuclideanDistance returns the euclidean distance of two
// vectors, that is sqrt( (p1 - q1)² + ... + (pn - qn)² ).
func EuclideanDistance(p, q []float64) float64 {
	return floats.Distance(p, q, 2)
}
