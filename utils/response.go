package utils

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mapleleafu/snakearena/snakearena-backend/models"
	"github.com/mapleleafu/snakearena/snakearena-backend/responses"
)

func HandleSuccess(w http.ResponseWriter, response models.ApiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// HandleError checks the error type and sends an appropriate response
func HandleError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	errorMsg := "Internal Server Error"

	var apiErr responses.APIError
	if errors.As(err, &apiErr) {
		statusCode = apiErr.StatusCode()
		errorMsg = apiErr.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(models.ErrorResponse(errorMsg)); err != nil {
		log.Printf("Error encoding error response: %v", err)
	}
}
