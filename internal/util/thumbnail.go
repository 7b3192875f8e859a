package util

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ImageInfo 存储图片信息
type ImageInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

// GetImageInfo 使用ffmpeg-go库获取图片信息
func GetImageInfo(imagePath string) (*ImageInfo, error) {
	fileInfo, err := os.Stat(imagePath)
	if err != nil {
		return nil, fmt.Errorf("图片文件不存在: %v", err)
	}

	jsonOutput, err := ffmpeg.Probe(imagePath)
	if err != nil {
		return nil, fmt.Errorf("获取图片信息失败: %v", err)
	}

	var result struct {
		Streams []struct {
			CodecType string `json:"codec_type"`
			CodecName string `json:"codec_name"`
			Width     int    `json:"width"`
			Height    int    `json:"height"`
		} `json:"streams"`
	}

	if err := json.Unmarshal([]byte(jsonOutput), &result); err != nil {
		return nil, fmt.Errorf("解析图片信息失败: %v", err)
	}

	var width, height int
	var format string
	for _, stream := range result.Streams {
		if stream.CodecType == "video" {
			width = stream.Width
			height = stream.Height
			format = stream.CodecName
			break
		}
	}

	return &ImageInfo{
		Width:  width,
		Height: height,
		Format: format,
		Size:   fileInfo.Size(),
	}, nil
}

// GenerateThumbnail 使用ffmpeg-go库生成图片缩略图，等比缩放到指定宽度
func GenerateThumbnail(imagePath, thumbnailPath string, maxWidth int) error {
	if err := os.MkdirAll(filepath.Dir(thumbnailPath), 0755); err != nil {
		return fmt.Errorf("创建缩略图目录失败: %v", err)
	}

	return ffmpeg.Input(imagePath).
		Output(thumbnailPath, ffmpeg.KwArgs{
			"vf":      "scale=" + strconv.Itoa(maxWidth) + ":-1",
			"vframes": "1",
			"q:v":     "2", // 图像质量 (1-31, 越小质量越高)
		}).
		OverWriteOutput().
		Run()
}
