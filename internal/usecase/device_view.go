package usecase

import (
	"strings"
	"time"

	"onlinestore/internal/domain/model"
)

// DeviceView はAPIで返すデバイス。画像キーとURLを足す。
type DeviceView struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	Price     int64              `json:"price"`
	Rating    float64            `json:"rating"`
	Img       string             `json:"img"`
	TypeID    *int64             `json:"typeId"`
	BrandID   *int64             `json:"brandId"`
	ImageKey  string             `json:"imageKey"`
	ImageURL  string             `json:"imageUrl"`
	Info      []model.DeviceInfo `json:"info,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func ImageURL(staticPrefix, key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimRight(staticPrefix, "/") + "/images/" + key
}

func NewDeviceView(d model.Device, staticPrefix string) DeviceView {
	return DeviceView{
		ID:        d.ID,
		Name:      d.Name,
		Price:     d.Price,
		Rating:    d.Rating,
		Img:       d.Img,
		TypeID:    d.TypeID,
		BrandID:   d.BrandID,
		ImageKey:  d.Img,
		ImageURL:  ImageURL(staticPrefix, d.Img),
		Info:      d.Info,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
