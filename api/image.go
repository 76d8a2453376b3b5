package api

import (
	"time"

	"github.com/imagio/imagio/media/domain"
)

type Image struct {
	UUID       string    `json:"uuid"`
	Category   string    `json:"category"`
	Mime       string    `json:"mime"`
	CreateTime time.Time `json:"create_time"`
}

func FromDomain(img *domain.Image) Image {
	return Image{
		UUID:       img.UUID,
		Category:   img.Category,
		Mime:       img.MIME,
		CreateTime: img.CreatedAt,
	}
}

func FromDomainList(images []*domain.Image) []Image {
	out := make([]Image, 0, len(images))
	for _, img := range images {
		out = append(out, FromDomain(img))
	}
	return out
}
