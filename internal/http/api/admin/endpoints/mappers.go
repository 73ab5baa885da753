package endpoints

import (
	"time"

	"github.com/lumacast/lumacast/internal/http/api/admin/packets"
	"github.com/lumacast/lumacast/internal/model"
)

func mapMediaItem(m model.MediaItem) packets.MediaItemResponse {
	return packets.MediaItemResponse{
		ID:        m.ID,
		Title:     m.Title,
		Type:      m.Type,
		URL:       m.URL,
		Duration:  m.Duration,
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
	}
}

func mapPlaylist(p model.Playlist) packets.PlaylistResponse {
	items := make([]packets.PlaylistItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		resp := packets.PlaylistItemResponse{
			ID:          it.ID,
			MediaItemID: it.MediaItemID,
			Position:    it.Position,
		}
		if it.Media != nil {
			m := mapMediaItem(*it.Media)
			resp.Media = &m
		}
		items = append(items, resp)
	}
	return packets.PlaylistResponse{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.Format(time.RFC3339),
		Items:     items,
	}
}

func mapAssignment(a model.Assignment) packets.AssignmentResponse {
	return packets.AssignmentResponse{
		ID:         a.ID,
		PlaylistID: a.PlaylistID,
		Days:       []int64(a.Days),
		StartTime:  a.StartTime,
		EndTime:    a.EndTime,
		Position:   a.Position,
	}
}

func mapScreen(s model.Screen) packets.ScreenResponse {
	assignments := make([]packets.AssignmentResponse, 0, len(s.Assignments))
	for _, a := range s.Assignments {
		assignments = append(assignments, mapAssignment(a))
	}
	return packets.ScreenResponse{
		ID:          s.ID,
		Name:        s.Name,
		CreatedAt:   s.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   s.UpdatedAt.Format(time.RFC3339),
		Assignments: assignments,
	}
}
