package liveness

import "testing"

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

// goodFace returns an observation that passes every filter rule.
func goodFace() FaceObservation {
	return FaceObservation{
		Yaw:        floatPtr(0),
		Roll:       floatPtr(2),
		Width:      320,
		Height:     320,
		TrackingID: strPtr("face-1"),
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name       string
		faces      []FaceObservation
		wantReason RejectionReason
	}{
		{
			name:       "no faces",
			faces:      nil,
			wantReason: RejectNoFace,
		},
		{
			name:       "multiple faces",
			faces:      []FaceObservation{goodFace(), goodFace()},
			wantReason: RejectMultipleFaces,
		},
		{
			name:       "single valid face",
			faces:      []FaceObservation{goodFace()},
			wantReason: RejectNone,
		},
		{
			name: "too narrow",
			faces: []FaceObservation{func() FaceObservation {
				f := goodFace()
				f.Width = 80
				return f
			}()},
			wantReason: RejectInvalidGeometry,
		},
		{
			name: "too short",
			faces: []FaceObservation{func() FaceObservation {
				f := goodFace()
				f.Height = 80
				return f
			}()},
			wantReason: RejectInvalidGeometry,
		},
		{
			name: "excessive roll",
			faces: []FaceObservation{func() FaceObservation {
				f := goodFace()
				f.Roll = floatPtr(45)
				return f
			}()},
			wantReason: RejectInvalidGeometry,
		},
		{
			name: "negative roll beyond bound",
			faces: []FaceObservation{func() FaceObservation {
				f := goodFace()
				f.Roll = floatPtr(-45)
				return f
			}()},
			wantReason: RejectInvalidGeometry,
		},
		{
			name: "missing roll",
			faces: []FaceObservation{func() FaceObservation {
				f := goodFace()
				f.Roll = nil
				return f
			}()},
			wantReason: RejectInvalidGeometry,
		},
		{
			name: "missing tracking id",
			faces: []FaceObservation{func() FaceObservation {
				f := goodFace()
				f.TrackingID = nil
				return f
			}()},
			wantReason: RejectUntracked,
		},
		{
			name: "empty tracking id",
			faces: []FaceObservation{func() FaceObservation {
				f := goodFace()
				f.TrackingID = strPtr("")
				return f
			}()},
			wantReason: RejectUntracked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			face, reason := Filter(tt.faces)
			if reason != tt.wantReason {
				t.Errorf("Filter() reason = %q, want %q", reason, tt.wantReason)
			}
			if tt.wantReason == RejectNone && face == nil {
				t.Fatal("Filter() returned nil face for valid input")
			}
			if tt.wantReason != RejectNone && face != nil {
				t.Errorf("Filter() returned a face alongside rejection %q", reason)
			}
		})
	}
}

func TestFilter_MultipleFacesNotAveraged(t *testing.T) {
	// Even when both faces would individually pass, two faces are a
	// tamper signal and must reject the frame.
	face, reason := Filter([]FaceObservation{goodFace(), goodFace()})
	if reason != RejectMultipleFaces {
		t.Errorf("reason = %q, want %q", reason, RejectMultipleFaces)
	}
	if face != nil {
		t.Error("expected no face for multi-face frame")
	}
}

func TestFilter_PreservesYawAbsence(t *testing.T) {
	f := goodFace()
	f.Yaw = nil

	face, reason := Filter([]FaceObservation{f})
	if reason != RejectNone {
		t.Fatalf("reason = %q, want valid", reason)
	}
	if face.Yaw != nil {
		t.Error("missing yaw must stay absent, not default to 0")
	}
}
