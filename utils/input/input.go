package input

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/tsinghua-fib-lab/airsafe-sim/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v2"
)

// Junction 路口静态数据
type Junction struct {
	ID string  `yaml:"id" bson:"id" validate:"required"`
	X  float64 `yaml:"x" bson:"x"`
	Y  float64 `yaml:"y" bson:"y"`
}

// Road 有向道路静态数据
type Road struct {
	From string `yaml:"from" bson:"from" validate:"required"`
	To   string `yaml:"to" bson:"to" validate:"required"`
}

// Input 输入数据
// 功能：存储仿真所需的路网拓扑，Junctions与Roads均保持声明顺序
type Input struct {
	Junctions []Junction `yaml:"junctions" validate:"required,min=1,dive"`
	Roads     []Road     `yaml:"roads" validate:"dive"`
	Sink      string     `yaml:"sink,omitempty"` // 改道目标路口
}

// Default 内置路网：2行3列共6个路口、7条有向道路，J6为改道目标
func Default() *Input {
	return &Input{
		Junctions: []Junction{
			{ID: "J1", X: 100, Y: 100},
			{ID: "J2", X: 300, Y: 100},
			{ID: "J3", X: 500, Y: 100},
			{ID: "J4", X: 100, Y: 300},
			{ID: "J5", X: 300, Y: 300},
			{ID: "J6", X: 500, Y: 300},
		},
		Roads: []Road{
			{From: "J1", To: "J2"}, {From: "J2", To: "J3"},
			{From: "J1", To: "J4"}, {From: "J2", To: "J5"}, {From: "J3", To: "J6"},
			{From: "J4", To: "J5"}, {From: "J5", To: "J6"},
		},
		Sink: "J6",
	}
}

// Init 加载路网
// 功能：根据配置加载路网拓扑并校验
// 参数：ctx-上下文，c-配置对象
// 返回：路网拓扑与错误
// 算法说明：
// 1. 指定了文件则从YAML文件加载
// 2. 指定了db与col则从MongoDB加载
// 3. 否则使用内置路网
// 4. 校验ID唯一、道路两端存在、sink存在
func Init(ctx context.Context, c config.Config) (*Input, error) {
	var (
		res *Input
		err error
	)
	path := c.Input.Topology
	switch {
	case path.File != "":
		log.Infof("load topology from file %s", path.File)
		res, err = loadFile(path.File)
	case path.FromMongo():
		log.Infof("start fetching topology from %s.%s", path.DB, path.Col)
		res, err = loadMongo(ctx, c.Input.URI, path)
		if err == nil {
			log.Infof("finish fetching topology from %s.%s", path.DB, path.Col)
		}
	default:
		log.Info("use built-in topology")
		res = Default()
	}
	if err != nil {
		return nil, err
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

// loadFile 从YAML文件加载路网
func loadFile(file string) (*Input, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read topology file: %w", err)
	}
	var res Input
	if err := yaml.UnmarshalStrict(data, &res); err != nil {
		return nil, fmt.Errorf("unmarshal topology file: %w", err)
	}
	return &res, nil
}

// topologyDoc MongoDB中的路网文档，class区分junction/road/meta
type topologyDoc struct {
	Class string  `bson:"class"`
	ID    string  `bson:"id,omitempty"`
	X     float64 `bson:"x,omitempty"`
	Y     float64 `bson:"y,omitempty"`
	From  string  `bson:"from,omitempty"`
	To    string  `bson:"to,omitempty"`
	Sink  string  `bson:"sink,omitempty"`
}

// loadMongo 从MongoDB加载路网
// 功能：读取集合中的全部文档，按插入顺序（_id升序）还原声明顺序
func loadMongo(ctx context.Context, uri string, path config.InputPath) (*Input, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(context.Background())

	coll := client.Database(path.GetDb()).Collection(path.GetColl())
	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find topology in %s.%s: %w", path.DB, path.Col, err)
	}
	var docs []topologyDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode topology in %s.%s: %w", path.DB, path.Col, err)
	}
	return fromDocs(docs), nil
}

// fromDocs 将路网文档转换为Input，未知class记录警告后忽略
func fromDocs(docs []topologyDoc) *Input {
	res := &Input{}
	for _, d := range docs {
		switch d.Class {
		case "junction":
			res.Junctions = append(res.Junctions, Junction{ID: d.ID, X: d.X, Y: d.Y})
		case "road":
			res.Roads = append(res.Roads, Road{From: d.From, To: d.To})
		case "meta":
			res.Sink = d.Sink
		default:
			log.Warnf("ignore topology document with unknown class %q", d.Class)
		}
	}
	return res
}
