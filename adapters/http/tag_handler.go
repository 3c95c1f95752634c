package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	tagUC "github.com/khoahotran/tag-service/internal/application/usecase/tag"
	"github.com/khoahotran/tag-service/pkg/apperror"
)

const pictureFormField = "picture"

// multipartOverhead leaves room for boundaries and part headers around the
// picture itself.
const multipartOverhead = 1 << 20

type TagHandler struct {
	createTagUseCase      *tagUC.CreateTagUseCase
	getTagUseCase         *tagUC.GetTagUseCase
	renameTagUseCase      *tagUC.RenameTagUseCase
	deleteTagUseCase      *tagUC.DeleteTagUseCase
	listTagsUseCase       *tagUC.ListTagsUseCase
	replacePictureUseCase *tagUC.ReplacePictureUseCase
	maxPictureBytes       int64
}

func NewTagHandler(
	createUC *tagUC.CreateTagUseCase,
	getUC *tagUC.GetTagUseCase,
	renameUC *tagUC.RenameTagUseCase,
	deleteUC *tagUC.DeleteTagUseCase,
	listUC *tagUC.ListTagsUseCase,
	pictureUC *tagUC.ReplacePictureUseCase,
	maxPictureBytes int64,
) *TagHandler {
	return &TagHandler{
		createTagUseCase:      createUC,
		getTagUseCase:         getUC,
		renameTagUseCase:      renameUC,
		deleteTagUseCase:      deleteUC,
		listTagsUseCase:       listUC,
		replacePictureUseCase: pictureUC,
		maxPictureBytes:       maxPictureBytes,
	}
}

func parseTagID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewInvalidInput(fmt.Sprintf("invalid tag ID '%s'", c.Param("id")), err)
	}
	return id, nil
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	out, err := h.createTagUseCase.Execute(c.Request.Context(), tagUC.CreateTagInput{Name: req.Name})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "Success",
		"tag":    ToTagDTO(out.Tag, nil),
	})
}

func (h *TagHandler) GetTag(c *gin.Context) {
	id, err := parseTagID(c)
	if err != nil {
		c.Error(err)
		return
	}

	out, err := h.getTagUseCase.Execute(c.Request.Context(), tagUC.GetTagInput{ID: id})
	if err != nil {
		c.Error(err)
		return
	}

	dto := ToTagDTO(out.Tag, out.Picture)
	if dto.Picture == nil {
		dto.Picture = []PictureDTO{}
	}
	c.JSON(http.StatusOK, gin.H{"status": "Success", "tag": dto})
}

func (h *TagHandler) RenameTag(c *gin.Context) {
	id, err := parseTagID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req RenameTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid request data", err))
		return
	}

	out, err := h.renameTagUseCase.Execute(c.Request.Context(), tagUC.RenameTagInput{ID: id, Name: req.Name})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Success",
		"tag":    gin.H{"id": out.Tag.ID, "name": out.Tag.Name},
	})
}

func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, err := parseTagID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.deleteTagUseCase.Execute(c.Request.Context(), tagUC.DeleteTagInput{ID: id}); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Success"})
}

func (h *TagHandler) ListTags(c *gin.Context) {
	out, err := h.listTagsUseCase.Execute(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Success", "tags": ToTagDTOs(out.Tags)})
}

func (h *TagHandler) ReplacePicture(c *gin.Context) {
	id, err := parseTagID(c)
	if err != nil {
		c.Error(err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxPictureBytes+multipartOverhead)

	fileHeader, err := c.FormFile(pictureFormField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.Error(apperror.NewInvalidInput(fmt.Sprintf("picture exceeds %d bytes", h.maxPictureBytes), err))
			return
		}
		c.Error(apperror.NewInvalidInput(fmt.Sprintf("'%s' is required", pictureFormField), err))
		return
	}
	if fileHeader.Size > h.maxPictureBytes {
		c.Error(apperror.NewInvalidInput(fmt.Sprintf("picture exceeds %d bytes", h.maxPictureBytes), nil))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("picture cannot open", err))
		return
	}
	defer file.Close()

	err = h.replacePictureUseCase.Execute(c.Request.Context(), tagUC.ReplacePictureInput{
		ID:          id,
		Picture:     file,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "Success"})
}
