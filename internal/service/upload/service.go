// Package upload 保存用户上传的请求配图
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"carematch_server/internal/dto/respond"
	"carematch_server/pkg/constants"
	"carematch_server/pkg/enum/request_enum"
	"carematch_server/pkg/errorx"
	"carematch_server/pkg/util/random"

	"go.uber.org/zap"
)

// userDir 上传目录下存放用户图片的子目录，对外地址为 /uploads/user/<name>
const userDir = "user"

var allowedExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

type uploadService struct {
	root string
	now  func() time.Time
}

// NewUploadService root 为上传根目录（staticSrcConfig.uploadPath）
func NewUploadService(root string) *uploadService {
	return &uploadService{root: root, now: time.Now}
}

// SaveImage 校验并保存图片，返回可直接写入请求的图片字段
func (s *uploadService) SaveImage(userID uint, fileHeader *multipart.FileHeader) (*respond.UploadImageRespond, error) {
	if fileHeader == nil {
		return nil, errorx.New(errorx.CodeInvalidParam, "No image uploaded.")
	}
	if fileHeader.Size > constants.UPLOAD_IMAGE_MAX_SIZE {
		return nil, errorx.New(errorx.CodeInvalidParam, "Image too large.")
	}

	src, err := fileHeader.Open()
	if err != nil {
		zap.L().Error("open upload failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	defer src.Close()

	// 读取前 512 字节做 Magic Bytes 校验
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return nil, errorx.ErrServerBusy
	}
	if !strings.HasPrefix(http.DetectContentType(buffer[:n]), "image/") {
		return nil, errorx.New(errorx.CodeInvalidParam, "Only images allowed.")
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, errorx.ErrServerBusy
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExts[ext] {
		ext = ".png"
	}
	name := fmt.Sprintf("u_%d_%d_%s%s", userID, s.now().UnixMilli(), random.GetHexToken(6), ext)

	dir := filepath.Join(s.root, userDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		zap.L().Error("create upload dir failed", zap.String("dir", dir), zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	dst := filepath.Join(dir, name)
	out, err := os.Create(dst)
	if err != nil {
		zap.L().Error("create upload file failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	defer out.Close()

	// 多读一个字节用于发现声明大小与实际内容不符的文件
	written, err := io.Copy(out, io.LimitReader(src, constants.UPLOAD_IMAGE_MAX_SIZE+1))
	if err != nil || written > constants.UPLOAD_IMAGE_MAX_SIZE {
		_ = os.Remove(dst)
		if err != nil {
			zap.L().Error("save upload failed", zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		return nil, errorx.New(errorx.CodeInvalidParam, "Image too large.")
	}

	zap.L().Info("upload image success", zap.Uint("user_id", userID), zap.String("filename", name))
	return &respond.UploadImageRespond{
		ImageURL:    "/uploads/" + userDir + "/" + name,
		ImageSource: request_enum.ImageSourceInternal,
		ImageKey:    name,
	}, nil
}
