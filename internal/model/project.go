package model

type Project struct {
	ID           string `json:"id"`
	CreatedAt    string `json:"created_at"`
	Name         string `json:"name"`
	Handle       string `json:"handle"`
	CreatedBy    string `json:"created_by"`
	Introduction string `json:"introduction"`
	WebsiteURL   string `json:"website_url"`
}

type Collection struct {
	ID              string `json:"id"`
	ProjectID       string `json:"project_id"`
	Chain           string `json:"chain"`
	ContractAddress string `json:"contract_address"`
	Name            string `json:"name"`
	ImageUrl        string `json:"image_url"`
}

type CreateProjectRequest struct {
	Name         string `json:"name"`
	Handle       string `json:"handle"`
	Introduction string `json:"introduction"`
	WebsiteURL   string `json:"website_url"`
}

type CreateProjectResponse struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
}

type GetProjectRequest struct {
	Handle string `json:"handle"`
}

type GetProjectResponse struct {
	Project     Project      `json:"project"`
	Collections []Collection `json:"collections"`
}

type GetListProjectRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetListProjectResponse struct {
	Projects []Project `json:"projects"`
}

type CreateCollectionRequest struct {
	ProjectID       string `json:"project_id"`
	Chain           string `json:"chain"`
	ContractAddress string `json:"contract_address"`
	Name            string `json:"name"`
	ImageUrl        string `json:"image_url"`
}

type CreateCollectionResponse struct {
	ID string `json:"id"`
}
