package cli

import (
	"errors"
	"fmt"

	"xianshiji/internal/client/apiclient"
	"xianshiji/internal/client/barcode"
	"xianshiji/internal/client/forms"
)

var errUsage = errors.New("参数不正确")

func usageErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// describe turns an error into the line shown to the user. Backend messages
// are shown as sent.
func describe(err error) string {
	var ve *forms.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	if apiclient.IsNetwork(err) {
		return "网络错误，请检查网络连接"
	}
	if be, ok := apiclient.AsBackend(err); ok {
		return be.Message
	}
	if errors.Is(err, barcode.ErrProductNotFound) {
		return "未找到该商品信息"
	}
	return err.Error()
}
