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

// IntMin returns the minimum of all elements.
func IntMin(a int, elements ...int) int {
	res := a
	for _, val := range elements {
		if val < res {
			res = val
		}
	}
	return res
}

// IntMax returns the maximum of all elements.
func IntMax(a int, elements ...int) int {
	res := a
	for _, val := range elements {
		if val > res {
			res = val
		}
	}
	return res
}
