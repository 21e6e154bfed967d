package rest

import (
	"net/http"
)

// EndpointHello handles the 'GET /v1/hello' endpoint
func (service *Service) EndpointHello(writer http.ResponseWriter, _ *http.Request) {
	service.writer.WriteJSON(writer, map[string]string{
		"message": "Hello, world!",
	})
}
