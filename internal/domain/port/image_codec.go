package port

import "image"

// ImageCodec декодирует присланные снимки и кодирует результат для ответа
type ImageCodec interface {
	Decode(data []byte) (image.Image, error)
	Encode(img image.Image) ([]byte, error)
}
