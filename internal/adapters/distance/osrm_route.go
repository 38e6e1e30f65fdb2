package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mixed-route-service/internal/domain"
	"mixed-route-service/internal/platform/obs"
	"net/http"
)

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Geometry string  `json:"geometry"`
		Duration float64 `json:"duration"`
	} `json:"routes"`
}

// GetGeometry retrieves the full-overview polyline of the drive through points, in order.
func (o *OSRMProvider) GetGeometry(
	ctx context.Context,
	points []domain.Coordinates,
) (_ string, err error) {
	defer obs.Time(ctx, "osrm.GetGeometry")(&err)

	if len(points) < 2 {
		return "", errors.New("route geometry needs at least two points")
	}

	endpoint := fmt.Sprintf("%s/route/v1/%s/%s", o.baseURL, o.profile, encodeCoordinates(points))

	resp, err := o.doWithRetry(ctx, "route", func() (*http.Request, error) {
		req, err := o.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("overview", "full")
		q.Set("geometries", "polyline")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	var rr routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return "", fmt.Errorf("decode route response: %w", err)
	}

	if rr.Code != "Ok" {
		return "", fmt.Errorf("route service returned code=%q message=%q", rr.Code, rr.Message)
	}
	if len(rr.Routes) == 0 {
		return "", errors.New("route service returned no routes")
	}

	return rr.Routes[0].Geometry, nil
}
