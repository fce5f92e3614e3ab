package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/haierkeys/fast-diary/internal/domain"
)

// cliPresenter 命令行下的界面能力：日期来自参数，提示写到输出
type cliPresenter struct {
	date string
	out  io.Writer
	now  func() time.Time
}

// PickDate 返回 --date 指定的日期，未指定时为今天
func (p *cliPresenter) PickDate(ctx context.Context) (domain.Date, error) {
	if p.date == "" {
		now := time.Now
		if p.now != nil {
			now = p.now
		}
		return domain.DateOf(now()), nil
	}
	return domain.ParseDate(p.date)
}

func (p *cliPresenter) Notify(message string) {
	fmt.Fprintln(p.out, message)
}
