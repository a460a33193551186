package events

import (
	"encoding/json"
	"testing"

	"github.com/yourorg/media-gateway/internal/auth"
)

func TestUploadEventWireFormat(t *testing.T) {
	claim := auth.Claim{"username": "ada", "admin": true, "tenant": "t1"}
	e := NewUploadEvent("7f1c0e5e-2a4b-4a8e-9a52-0a4b8f1d2c3e", "clip.mp4", claim)
	b, err := e.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["video_fid"] != e.VideoFID {
		t.Fatalf("video_fid %v", got["video_fid"])
	}
	if v, ok := got["mp3_fid"]; !ok || v != nil {
		t.Fatalf("mp3_fid must be present and null, got %v (present=%v)", v, ok)
	}
	if got["username"] != "ada" {
		t.Fatalf("username %v", got["username"])
	}
	c, ok := got["claim"].(map[string]any)
	if !ok || c["tenant"] != "t1" {
		t.Fatalf("claim not carried: %v", got["claim"])
	}
}

func TestWorkflowIDIsStablePerArtifact(t *testing.T) {
	if WorkflowID("abc") != WorkflowID("abc") || WorkflowID("abc") == WorkflowID("abd") {
		t.Fatalf("workflow ids must be derived from the artifact id")
	}
}
