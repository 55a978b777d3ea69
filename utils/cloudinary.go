package utils

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// InitCloudinary initializes the Cloudinary client
func InitCloudinary() (*cloudinary.Cloudinary, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	cld, err := cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"))
	if err != nil {
		return nil, err
	}
	return cld, nil
}

// UploadReportFile uploads a medical report file to Cloudinary and returns
// the secure URL. The public ID is randomized so patient file names never
// leak into URLs.
func UploadReportFile(fileHeader *multipart.FileHeader) (string, error) {
	cld, err := InitCloudinary()
	if err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	ext := filepath.Ext(fileHeader.Filename)
	publicID := fmt.Sprintf("report-%s%s", uuid.NewString(), ext)

	resp, err := cld.Upload.Upload(context.Background(), file, uploader.UploadParams{
		PublicID: publicID,
		Folder:   "reports",
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}
