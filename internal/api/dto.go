package api

// ServiceInfo is returned by GET /.
type ServiceInfo struct {
	Name        string `json:"name" example:"vision2ui Component Metadata API"`
	Version     string `json:"version" example:"0.1.0"`
	Status      string `json:"status" example:"running"`
	Description string `json:"description"`
}

// ComponentListResponse wraps the sorted component names.
type ComponentListResponse struct {
	Components []string `json:"components" validate:"required"`
	Count      int      `json:"count" example:"12" validate:"required"`
}

// ComponentContentResponse carries one component document.
type ComponentContentResponse struct {
	ComponentName string `json:"component_name" example:"Button" validate:"required"`
	Content       string `json:"content" example:"# Button" validate:"required"`
}

// ComponentExistsResponse answers an existence check.
type ComponentExistsResponse struct {
	Exists bool `json:"exists"`
}

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	Message       string `json:"message" example:"Component uploaded successfully"`
	ComponentName string `json:"component_name" example:"Button" validate:"required"`
	Filename      string `json:"filename" example:"Button-3.4.2.md" validate:"required"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error  string `json:"error" example:"not_found" validate:"required"`
	Detail string `json:"detail" example:"component \"Foo\" not found"`
}
