package uploads

import "time"

// Upload is a stored PDF owned by one user. It is written once and never changed.
type Upload struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"owner_id"`
	OwnerDisplayName string    `json:"owner_display_name"`
	Filename         string    `json:"filename"`
	StoragePath      string    `json:"storage_path"`
	SizeBytes        int64     `json:"size_bytes"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreatedResponse is returned by POST /uploads.
type CreatedResponse struct {
	UploadID string `json:"upload_id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// View is the owner-facing representation; it never exposes the storage path.
type View struct {
	UploadID  string    `json:"upload_id"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

func toView(u Upload) View {
	return View{
		UploadID:  u.ID,
		Filename:  u.Filename,
		Size:      u.SizeBytes,
		CreatedAt: u.CreatedAt,
	}
}
