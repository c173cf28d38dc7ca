package app

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"
)

type apiError struct {
	Message string `json:"message"`
}

func respondWith(w http.ResponseWriter, code int, response interface{}) {
	if err, ok := response.(error); ok {
		log.Errorf("Error %d: %v", code, err)
		response = apiError{Message: err.Error()}
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Add("Cache-Control", "no-cache")
	w.WriteHeader(code)
	encoder := codec.NewEncoder(w, &codec.JsonHandle{})
	if err := encoder.Encode(response); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}
