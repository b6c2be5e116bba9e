package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sgostarter/i/l"
)

func (s *Server) handleItemSuggestions(c *gin.Context) {
	respWrapper := &ResponseWrapper{}

	items, code, msg := s.handleItemSuggestionsInner(c)
	if code == CodeSuccess {
		respWrapper.Resp = GetItemsResponse{
			Items: items,
		}
	}

	respWrapper.Apply(code, msg)

	c.JSON(http.StatusOK, respWrapper)
}

// handleItemSuggestionsInner returns learned item names ordered by usage,
// then the configured presets that no saved bill has used yet.
func (s *Server) handleItemSuggestionsInner(_ *gin.Context) (items []ItemInfo, code Code, msg string) {
	suggestions, err := s.storage.GetItemSuggestions()
	if err != nil {
		s.logger.WithFields(l.ErrorField(err)).Error("get item suggestions failed")

		code = codeFromStorageError(err)
		msg = err.Error()

		return
	}

	items = make([]ItemInfo, 0, len(suggestions)+len(s.cfg.PresetItems))

	seen := make(map[string]bool, len(suggestions))

	for _, suggestion := range suggestions {
		seen[suggestion.Name] = true

		items = append(items, ItemInfo{
			Name:        suggestion.Name,
			CostPerUnit: suggestion.CostPerUnit,
			UsedCount:   suggestion.UsedCount,
		})
	}

	for _, preset := range s.cfg.PresetItems {
		if seen[preset.Name] {
			continue
		}

		items = append(items, ItemInfo{
			Name:        preset.Name,
			CostPerUnit: preset.CostPerUnit,
		})
	}

	return
}
