package packets

import (
	"github.com/sushant-kumar17/yt-streamer/internal/model"
)

type CreateScheduleRequest struct {
	Date        string        `json:"date" binding:"required,datetime=2006-01-02"`
	Slot        model.Slot    `json:"slot" binding:"required,oneof=morning evening"`
	VideoURL    string        `json:"video_url" binding:"required,url"`
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description"`
	Privacy     model.Privacy `json:"privacy" binding:"omitempty,oneof=public unlisted private"`
}

type UpdateScheduleRequest struct {
	VideoURL    *string        `json:"video_url" binding:"omitempty,url"`
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Privacy     *model.Privacy `json:"privacy" binding:"omitempty,oneof=public unlisted private"`
	Status      *model.Status  `json:"status" binding:"omitempty,oneof=scheduled streaming streamed cancelled"`
}

type BulkCreateScheduleRequest struct {
	Schedules []CreateScheduleRequest `json:"schedules" binding:"required,min=1,dive"`
}

type ListSchedulesQuery struct {
	FromDate string `form:"from_date" binding:"omitempty,datetime=2006-01-02"`
	ToDate   string `form:"to_date" binding:"omitempty,datetime=2006-01-02"`
}
