package dto

type DemandResponse struct {
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Volume float64 `json:"volume"`
}

type ListDemandsResponse struct {
	Deliveries []DemandResponse `json:"deliveries"`
	Pickups    []DemandResponse `json:"pickups"`
}
