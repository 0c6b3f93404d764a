package handler

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"onlinestore/internal/config"
	"onlinestore/internal/infra/storage"
	"onlinestore/internal/middleware"
	"onlinestore/internal/repository"
	"onlinestore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// アップロード画像の置き場所（*storage.LocalImageStore）
type ImageStore interface {
	Save(ctx context.Context, fh *multipart.FileHeader) (string, error)
	Remove(ctx context.Context, key string) error
}

// /api/device
type DeviceHandler struct {
	uc     *usecase.DeviceUsecase
	images ImageStore
}

func NewDeviceHandler(uc *usecase.DeviceUsecase, images ImageStore) *DeviceHandler {
	return &DeviceHandler{uc: uc, images: images}
}

type DeviceInfoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type CreateDeviceRequest struct {
	Name    string              `json:"name"`
	Price   flexInt             `json:"price"`
	BrandID flexInt             `json:"brandId"`
	TypeID  flexInt             `json:"typeId"`
	Img     string              `json:"img"`
	Info    []DeviceInfoRequest `json:"info"`
}

type RateDeviceRequest struct {
	DeviceID flexInt `json:"deviceId"`
	Rate     flexInt `json:"rate"`
}

func (h *DeviceHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/api/device")

	g.GET("", h.list, middleware.CacheControl(middleware.CachePublicShort))
	g.GET("/:id", h.get, middleware.CacheControl(middleware.CachePublicLong))
	g.POST("", h.create, adminChain(cfg, userRepo)...)
	g.DELETE("/:id", h.delete, adminChain(cfg, userRepo)...)
	g.POST("/rating", h.rate,
		middleware.NoStore(),
		middleware.AuthJWT(cfg.SecretKey),
		middleware.ActiveUserGuard(userRepo),
	)
}

func (h *DeviceHandler) list(c echo.Context) error {
	in := usecase.ListDevicesInput{
		Page:  usecase.DefaultDevicePage,
		Limit: usecase.DefaultDeviceLimit,
	}

	// page（default 1）
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid page")
		}
		in.Page = p
	}
	// limit（default 9）
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid limit")
		}
		in.Limit = l
	}
	if v := c.QueryParam("typeId"); v != "" {
		id, ok := parseID(v)
		if !ok {
			return fail(c, http.StatusBadRequest, "invalid typeId")
		}
		in.TypeID = &id
	}
	if v := c.QueryParam("brandId"); v != "" {
		id, ok := parseID(v)
		if !ok {
			return fail(c, http.StatusBadRequest, "invalid brandId")
		}
		in.BrandID = &id
	}

	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out)
}

func (h *DeviceHandler) get(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	out, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out)
}

// JSON（img はキー）か multipart（img はファイル）
func (h *DeviceHandler) create(c echo.Context) error {
	var req CreateDeviceRequest
	upload := isMultipart(c)
	if upload {
		if err := bindDeviceForm(c, &req); err != nil {
			return fail(c, http.StatusBadRequest, "Invalid request body")
		}
	} else if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	ctx := c.Request().Context()

	saved := ""
	if upload {
		fh, err := c.FormFile("img")
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			return fail(c, http.StatusBadRequest, "Invalid request body")
		}
		if fh != nil {
			if h.images == nil {
				return fail(c, http.StatusBadRequest, "Image upload is not available")
			}
			key, err := h.images.Save(ctx, fh)
			switch {
			case errors.Is(err, storage.ErrUnsupportedType):
				return fail(c, http.StatusBadRequest, "Unsupported image type")
			case errors.Is(err, storage.ErrUnsupportedExtension):
				return fail(c, http.StatusBadRequest, "Unsupported image extension")
			case err != nil:
				c.Logger().Errorf("save image: %v", err)
				return fail(c, http.StatusInternalServerError, "Internal server error")
			}
			saved = key
			req.Img = key
		}
	}

	info := make([]usecase.DeviceInfoInput, 0, len(req.Info))
	for _, i := range req.Info {
		info = append(info, usecase.DeviceInfoInput{Title: i.Title, Description: i.Description})
	}

	out, err := h.uc.Create(ctx, usecase.CreateDeviceInput{
		Name:    req.Name,
		Price:   req.Price.Or(-1),
		BrandID: req.BrandID.Or(0),
		TypeID:  req.TypeID.Or(0),
		Img:     req.Img,
		Info:    info,
	})
	if err != nil {
		// 作成に失敗したら保存した画像を消す
		if saved != "" {
			if rmErr := h.images.Remove(context.WithoutCancel(ctx), saved); rmErr != nil {
				c.Logger().Warnf("remove image %s: %v", saved, rmErr)
			}
		}
		return writeError(c, err)
	}
	return writeCreated(c, out)
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// info は JSON 文字列で来る
func bindDeviceForm(c echo.Context, req *CreateDeviceRequest) error {
	req.Name = c.FormValue("name")
	req.Img = c.FormValue("img")
	if err := req.Price.parse(c.FormValue("price")); err != nil {
		return err
	}
	if err := req.BrandID.parse(c.FormValue("brandId")); err != nil {
		return err
	}
	if err := req.TypeID.parse(c.FormValue("typeId")); err != nil {
		return err
	}
	if raw := strings.TrimSpace(c.FormValue("info")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Info); err != nil {
			return err
		}
	}
	return nil
}

func (h *DeviceHandler) delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return writeOK(c, MessageResponse{Message: "Device deleted"})
}

func (h *DeviceHandler) rate(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "Unauthorized")
	}

	var req RateDeviceRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	out, err := h.uc.Rate(c.Request().Context(), userID, usecase.RateDeviceInput{
		DeviceID: req.DeviceID.Or(0),
		Rate:     int(req.Rate.Or(0)),
	})
	if err != nil {
		return writeError(c, err)
	}
	return writeOK(c, out)
}
