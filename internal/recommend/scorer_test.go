// Kinmap - Social Graph Friend Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/kinmap

package recommend

import (
	"testing"

	"github.com/tomtom215/kinmap/internal/graph"
)

func TestCloseness(t *testing.T) {
	tests := []struct {
		name string
		a, b graph.DemographicRecord
		want float64
	}{
		{
			name: "everything matches clamps down to one",
			// 0.3 + 0.4 + 0.5 + 0.3 = 1.5
			a:    graph.DemographicRecord{Gender: 1, Age: 30, City: "77", HigherEducation: true},
			b:    graph.DemographicRecord{Gender: 1, Age: 32, City: "77", HigherEducation: true},
			want: 1.0,
		},
		{
			name: "nothing matches clamps up to zero",
			// 0.1 - 0.2 = -0.1
			a:    graph.DemographicRecord{Gender: 1, Age: 20, City: "77", HigherEducation: false},
			b:    graph.DemographicRecord{Gender: 0, Age: 45, City: "78", HigherEducation: false},
			want: 0.0,
		},
		{
			name: "gender match with close age",
			// 0.3 + 0.4 = 0.7
			a:    graph.DemographicRecord{Gender: 0, Age: 25, City: "77", HigherEducation: false},
			b:    graph.DemographicRecord{Gender: 0, Age: 28, City: "78", HigherEducation: false},
			want: 0.7,
		},
		{
			name: "age gap in middle band",
			// 0.1 + 0.2 = 0.3
			a:    graph.DemographicRecord{Gender: 0, Age: 25, City: "77", HigherEducation: false},
			b:    graph.DemographicRecord{Gender: 1, Age: 32, City: "78", HigherEducation: false},
			want: 0.3,
		},
		{
			name: "age gap of exactly five falls in middle band",
			// 0.1 + 0.2 = 0.3
			a:    graph.DemographicRecord{Gender: 0, Age: 25, City: "77", HigherEducation: false},
			b:    graph.DemographicRecord{Gender: 1, Age: 30, City: "78", HigherEducation: false},
			want: 0.3,
		},
		{
			name: "age gap of exactly ten penalizes",
			// 0.1 - 0.2 + 0.5 = 0.4
			a:    graph.DemographicRecord{Gender: 0, Age: 25, City: "77", HigherEducation: false},
			b:    graph.DemographicRecord{Gender: 1, Age: 35, City: "77", HigherEducation: false},
			want: 0.4,
		},
		{
			name: "one sided education",
			// 0.3 + 0.4 + 0.1 = 0.8
			a:    graph.DemographicRecord{Gender: 1, Age: 40, City: "77", HigherEducation: true},
			b:    graph.DemographicRecord{Gender: 1, Age: 41, City: "78", HigherEducation: false},
			want: 0.8,
		},
		{
			name: "order independent",
			// 0.1 + 0.4 + 0.5 + 0.1 = 1.1, clamped
			a:    graph.DemographicRecord{Gender: 0, Age: 33, City: "msk", HigherEducation: true},
			b:    graph.DemographicRecord{Gender: 1, Age: 30, City: "msk", HigherEducation: false},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := closeness(tt.a, tt.b); got != tt.want {
				t.Errorf("closeness() = %v, want %v", got, tt.want)
			}
			// Symmetric by construction.
			if got := closeness(tt.b, tt.a); got != tt.want {
				t.Errorf("closeness() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClosenessRange(t *testing.T) {
	// Exhaust the discrete attribute combinations that influence scoring.
	ages := []int{0, 3, 7, 20}
	for _, ga := range []uint8{0, 1} {
		for _, gb := range []uint8{0, 1} {
			for _, aa := range ages {
				for _, ab := range ages {
					for _, sameCity := range []bool{true, false} {
						for _, ea := range []bool{true, false} {
							for _, eb := range []bool{true, false} {
								cityB := "x"
								if !sameCity {
									cityB = "y"
								}
								a := graph.DemographicRecord{Gender: ga, Age: aa, City: "x", HigherEducation: ea}
								b := graph.DemographicRecord{Gender: gb, Age: ab, City: cityB, HigherEducation: eb}
								p := closeness(a, b)
								if p < 0.0 || p > 1.0 {
									t.Fatalf("closeness(%+v, %+v) = %v outside [0,1]", a, b, p)
								}
							}
						}
					}
				}
			}
		}
	}
}
