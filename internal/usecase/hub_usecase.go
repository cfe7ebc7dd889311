package usecase

import (
	"context"
	"math/rand"
	"net/http"

	"marketplace/internal/domain/model"
	repo "marketplace/internal/repository"
)

// 一様ランダムにハブを選ぶ。地理は見ない（現方針）。
type RandomHubPicker struct{}

func (RandomHubPicker) Pick(hubs []model.DistributionHub) model.DistributionHub {
	return hubs[rand.Intn(len(hubs))]
}

type HubUsecase struct {
	hubRepo repo.HubRepository
}

func NewHubUsecase(hubRepo repo.HubRepository) *HubUsecase {
	return &HubUsecase{hubRepo: hubRepo}
}

type HubResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

// 公開のハブ一覧（シッパー登録画面などで使う）
func (u *HubUsecase) ListHubs(ctx context.Context) ([]HubResponse, error) {
	hubs, err := u.hubRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]HubResponse, 0, len(hubs))
	for _, h := range hubs {
		out = append(out, HubResponse{ID: h.ID, Name: h.Name, Location: h.Location})
	}
	return out, nil
}
