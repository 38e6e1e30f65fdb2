package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"mixed-route-service/internal/domain"
	"mixed-route-service/internal/platform/obs"
	"net/http"
)

type tableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Durations [][]*float64 `json:"durations"`
}

// GetDurations retrieves the full duration matrix between all points with one
// table request. Cells OSRM cannot route come back nil.
func (o *OSRMProvider) GetDurations(
	ctx context.Context,
	points []domain.Coordinates,
) (_ [][]*float64, err error) {
	defer obs.Time(ctx, "osrm.GetDurations")(&err)

	if len(points) == 0 {
		return [][]*float64{}, nil
	}
	if len(points) == 1 {
		zero := 0.0
		return [][]*float64{{&zero}}, nil
	}

	var key string
	// Check the matrix cache before issuing the external API call.
	if o.cache != nil {
		key = o.matrixKey(points)
		cached, ok, err := o.cache.Get(ctx, key)
		if err != nil {
			log.Printf("req_id=%s duration cache read failed: %v", obs.RequestID(ctx), err)
		} else if ok && validMatrix(cached, len(points)) {
			return cached, nil
		}
	}

	endpoint := fmt.Sprintf("%s/table/v1/%s/%s", o.baseURL, o.profile, encodeCoordinates(points))

	resp, err := o.doWithRetry(ctx, "table", func() (*http.Request, error) {
		req, err := o.newRequest(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("annotations", "duration")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("table request failed: %w", err)
	}
	defer resp.Body.Close()

	var tr tableResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("decode table response: %w", err)
	}

	if tr.Code != "Ok" {
		return nil, fmt.Errorf("table service returned code=%q message=%q", tr.Code, tr.Message)
	}

	if !validMatrix(tr.Durations, len(points)) {
		return nil, errors.New("table service returned a matrix that does not match the requested points")
	}

	if o.cache != nil {
		if err := o.cache.Put(ctx, key, tr.Durations); err != nil {
			log.Printf("req_id=%s duration cache write failed: %v", obs.RequestID(ctx), err)
		}
	}

	return tr.Durations, nil
}

func validMatrix(m [][]*float64, n int) bool {
	if len(m) != n {
		return false
	}
	for _, row := range m {
		if len(row) != n {
			return false
		}
	}
	return true
}
