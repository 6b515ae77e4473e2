package cerealdex

import "golang.org/x/crypto/bcrypt"

// AllowedImageExtensions lists the picture file types accepted on upload
var AllowedImageExtensions = []string{"jfif", "png", "jpg", "jpeg"}

const (
	DefaultStaticDir  = "static"
	DefaultBcryptCost = bcrypt.DefaultCost
)
