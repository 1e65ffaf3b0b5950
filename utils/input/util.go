package input

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var (
	log      = logrus.WithField("module", "input")
	validate = validator.New()

	ErrDuplicateJunction = errors.New("duplicated junction id")
	ErrDanglingRoad      = errors.New("road refers to unknown junction")
	ErrUnknownSink       = errors.New("sink refers to unknown junction")
)

// Validate 校验路网
// 功能：校验字段完整性与引用关系
// 算法说明：
// 1. 结构体标签校验（ID非空、至少一个路口）
// 2. 路口ID唯一
// 3. 每条道路的起终点都存在
// 4. sink（若指定）存在
func (in *Input) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("invalid topology: %w", err)
	}
	ids := make(map[string]struct{}, len(in.Junctions))
	for _, j := range in.Junctions {
		if _, ok := ids[j.ID]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateJunction, j.ID)
		}
		ids[j.ID] = struct{}{}
	}
	for i, r := range in.Roads {
		if _, ok := ids[r.From]; !ok {
			return fmt.Errorf("%w: road %d from %s", ErrDanglingRoad, i, r.From)
		}
		if _, ok := ids[r.To]; !ok {
			return fmt.Errorf("%w: road %d to %s", ErrDanglingRoad, i, r.To)
		}
	}
	if in.Sink != "" {
		if _, ok := ids[in.Sink]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownSink, in.Sink)
		}
	}
	return nil
}
