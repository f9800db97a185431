package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 文件上传相关常量
const (
	MimeImage = "image/"
)

var AllowedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// Genres 活动分类的静态枚举，/api/events/meta/genres 直接返回
var Genres = []string{
	"Pop",
	"Rock",
	"Hip-Hop/Rap",
	"Country",
	"Dance/Electronic",
	"R&B",
	"Latin",
	"Jazz",
	"Classical",
	"Metal",
	"Alternative",
	"Folk",
}
