//go:build !ocr

package ocr

const backendEnabled = false

func recognizeFile(path, language string) (string, []Word, error) {
	return "", nil, ErrNotEnabled
}
