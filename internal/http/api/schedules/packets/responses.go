package packets

import (
	"github.com/sushant-kumar17/yt-streamer/internal/model"
)

type ScheduleListResponse struct {
	Data []model.Schedule `json:"data"`
}

type ScheduleResponse struct {
	Message string         `json:"message"`
	Data    model.Schedule `json:"data"`
}

type BulkScheduleResponse struct {
	Message string           `json:"message"`
	Data    []model.Schedule `json:"data"`
}
