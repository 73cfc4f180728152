package service

import (
	"context"
	"elearn_backend/internal/config"
	"elearn_backend/internal/util"
	"elearn_backend/pkg/logger"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ContentService 处理课件媒体上传：图片、视频、缩略图和项目提交文件。
// 只负责产出 URL，二进制交给 StorageService。
type ContentService struct {
	StorageService *StorageService
	Cfg            *config.Config
	Redis          *redis.Client
}

func NewContentService(storageService *StorageService, cfg *config.Config, rdb *redis.Client) *ContentService {
	return &ContentService{
		StorageService: storageService,
		Cfg:            cfg,
		Redis:          rdb,
	}
}

const videoInfoKeyPrefix = "video_info:"

type UploadResult struct {
	URL       string `json:"url"`
	MimeType  string `json:"mimeType"`
	Duration  int    `json:"duration,omitempty"`  // Minutes，仅视频
	Thumbnail string `json:"thumbnail,omitempty"` // 视频首帧截图 URL
}

func (s *ContentService) UploadImage(ctx context.Context, file *multipart.FileHeader, prefix string) (*UploadResult, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		return nil, fmt.Errorf("非法的文件内容: %v", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%s/%d_%s", prefix, time.Now().UnixNano(), filepath.Base(file.Filename))
	url, err := s.StorageService.Upload(ctx, filename, src, file.Size, mimeType)
	if err != nil {
		return nil, err
	}

	return &UploadResult{URL: url, MimeType: mimeType}, nil
}

// UploadVideo 上传视频并探测时长，时长（分钟，向上取整）随结果返回供课时回填
func (s *ContentService) UploadVideo(ctx context.Context, file *multipart.FileHeader) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("不支持的视频格式: %s", ext)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeVideo, util.MimeOctetStream})
	if err != nil {
		return nil, fmt.Errorf("非法的文件内容: %v", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	// 先落到临时文件，ffmpeg 探测需要本地路径
	tmp, err := os.CreateTemp("", "upload_*"+ext)
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	durationMinutes := 0
	if info, err := util.GetVideoInfo(tmpPath); err != nil {
		// 探测失败不阻塞上传，时长留给调用方手工填写
		logger.Log.Warn("video probe failed", zap.String("file", file.Filename), zap.Error(err))
	} else {
		durationMinutes = int(math.Ceil(info.Duration / 60))
	}

	filename := fmt.Sprintf("videos/%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename))
	url, err := s.StorageService.UploadFile(ctx, filename, tmpPath, mimeType)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{URL: url, MimeType: mimeType, Duration: durationMinutes}
	result.Thumbnail = s.uploadThumbnail(ctx, tmpPath, filename)
	s.cacheVideoInfo(ctx, url, result)

	return result, nil
}

// uploadThumbnail 抽取视频第 1 秒的画面作为封面图，失败只记日志
func (s *ContentService) uploadThumbnail(ctx context.Context, videoPath, videoName string) string {
	thumbPath := videoPath + ".jpg"
	defer os.Remove(thumbPath)

	if err := util.GenerateThumbnail(videoPath, thumbPath, "00:00:01"); err != nil {
		logger.Log.Warn("generate thumbnail failed", zap.String("video", videoName), zap.Error(err))
		return ""
	}

	name := strings.TrimSuffix(videoName, filepath.Ext(videoName)) + "_thumb.jpg"
	url, err := s.StorageService.UploadFile(ctx, name, thumbPath, "image/jpeg")
	if err != nil {
		logger.Log.Warn("upload thumbnail failed", zap.String("video", videoName), zap.Error(err))
		return ""
	}
	return url
}

func (s *ContentService) UploadSubmissionFile(ctx context.Context, file *multipart.FileHeader, userID uint) (*UploadResult, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	allowedTypes := []string{util.MimePDF, util.MimeImage, "text/plain", "application/zip", util.MimeOctetStream}
	mimeType, err := util.ValidateMimeType(src, allowedTypes)
	if err != nil {
		return nil, fmt.Errorf("非法的文件内容: %v", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("submissions/%d/%d_%s", userID, time.Now().UnixNano(), filepath.Base(file.Filename))
	url, err := s.StorageService.Upload(ctx, filename, src, file.Size, mimeType)
	if err != nil {
		return nil, err
	}

	return &UploadResult{URL: url, MimeType: mimeType}, nil
}

// cacheVideoInfo 缓存探测结果，重复引用同一视频时免去再次探测
func (s *ContentService) cacheVideoInfo(ctx context.Context, url string, result *UploadResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, videoInfoKeyPrefix+url, data, 24*time.Hour).Err(); err != nil {
		logger.Log.Warn("cache video info failed", zap.Error(err))
	}
}

func (s *ContentService) GetCachedVideoInfo(ctx context.Context, url string) (*UploadResult, error) {
	val, err := s.Redis.Get(ctx, videoInfoKeyPrefix+url).Result()
	if err != nil {
		return nil, err
	}
	var result UploadResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
