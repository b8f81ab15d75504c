package dto

import (
	"github.com/raks-h21/muse-weave-27/internal/playback"
)

// ViewerStateResponse is one engine snapshot: the artwork at the cursor, its
// 1-indexed display position ("2 of 5") and the audio state.
type ViewerStateResponse struct {
	ViewerID     string           `json:"viewer_id"`
	State        string           `json:"state"`
	Artwork      *ArtworkResponse `json:"artwork,omitempty"`
	Index        int              `json:"index,omitempty"`
	Total        int              `json:"total"`
	AudioPlaying bool             `json:"audio_playing"`
	IsOwner      bool             `json:"is_owner"`
}

func NewViewerStateResponse(viewerID string, isOwner bool, snap playback.Snapshot) ViewerStateResponse {
	resp := ViewerStateResponse{
		ViewerID:     viewerID,
		State:        snap.State.String(),
		Index:        snap.Index,
		Total:        snap.Total,
		AudioPlaying: snap.AudioPlaying,
		IsOwner:      isOwner,
	}
	if snap.Artwork != nil {
		artwork := NewArtworkResponse(*snap.Artwork)
		resp.Artwork = &artwork
	}
	return resp
}
