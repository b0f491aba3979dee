package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ConfigResponse parâmetros de negócio efetivos
type ConfigResponse struct {
	CancelCashFactor      float64 `json:"cancelCashFactor"`      // fração do cash-repasse mantida após cancelamento
	GMVMonthlyTarget      float64 `json:"gmvMonthlyTarget"`      // meta mensal de GMV
	CashMonthlyTarget     float64 `json:"cashMonthlyTarget"`     // meta mensal de cash-repasse
	CheckWindowStartHours int     `json:"checkWindowStartHours"` // início da janela de checagem (horas a partir de agora)
	CheckWindowEndHours   int     `json:"checkWindowEndHours"`   // fim da janela de checagem
}

// UpdateConfigRequest atualização parcial de configuração
type UpdateConfigRequest struct {
	Updates map[string]interface{} `json:"updates"`
}

var configKeys = map[string]bool{
	"cancel_cash_factor":       true,
	"gmv_monthly_target":       true,
	"cash_monthly_target":      true,
	"check_window_start_hours": true,
	"check_window_end_hours":   true,
}

// effectiveConfig mescla os padrões do TOML com os overrides gravados no banco
func (h *Handler) effectiveConfig() ConfigResponse {
	resp := ConfigResponse{
		CancelCashFactor:      h.cfg.Business.CancelCashFactor,
		GMVMonthlyTarget:      h.cfg.Business.GMVMonthlyTarget,
		CashMonthlyTarget:     h.cfg.Business.CashMonthlyTarget,
		CheckWindowStartHours: h.cfg.Business.CheckWindowStartHours,
		CheckWindowEndHours:   h.cfg.Business.CheckWindowEndHours,
	}

	all, err := h.store.GetAllConfig()
	if err != nil {
		return resp
	}

	getFloat := func(key string, def float64) float64 {
		if val, ok := all[key]; ok {
			if f, err := strconv.ParseFloat(val, 64); err == nil {
				return f
			}
		}
		return def
	}
	getInt := func(key string, def int) int {
		if val, ok := all[key]; ok {
			if i, err := strconv.Atoi(val); err == nil {
				return i
			}
		}
		return def
	}

	resp.CancelCashFactor = getFloat("cancel_cash_factor", resp.CancelCashFactor)
	resp.GMVMonthlyTarget = getFloat("gmv_monthly_target", resp.GMVMonthlyTarget)
	resp.CashMonthlyTarget = getFloat("cash_monthly_target", resp.CashMonthlyTarget)
	resp.CheckWindowStartHours = getInt("check_window_start_hours", resp.CheckWindowStartHours)
	resp.CheckWindowEndHours = getInt("check_window_end_hours", resp.CheckWindowEndHours)

	return resp
}

// GetConfig parâmetros de negócio
// GET /api/config
func (h *Handler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.effectiveConfig())
}

// UpdateConfig atualização parcial dos parâmetros
// PATCH /api/config
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de requisição inválido"})
		return
	}

	for key, value := range req.Updates {
		if !configKeys[key] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "chave de configuração desconhecida: " + key})
			return
		}

		var strValue string
		switch v := value.(type) {
		case string:
			strValue = v
		case float64:
			strValue = strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			strValue = strconv.Itoa(v)
		default:
			continue
		}

		if err := h.store.SetConfig(key, strValue); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao gravar configuração: " + key})
			return
		}
	}

	c.JSON(http.StatusOK, h.effectiveConfig())
}
